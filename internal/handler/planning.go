package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/smarttrip/tripplanner/internal/auth"
	"github.com/smarttrip/tripplanner/internal/domain"
)

// planRequest is the POST /api/planning body.
type planRequest struct {
	TravelDestination   *string             `json:"travel_destination"`
	StartDate           *openapi_types.Date `json:"start_date"`
	EndDate             *openapi_types.Date `json:"end_date"`
	TripDuration        *int                `json:"trip_duration"`
	ActivityPreferences []string            `json:"activity_preferences"`
	TravelBudget        *float64            `json:"travel_budget"`
	TravelStyle         *string             `json:"travel_style"`
	ActivityIntensity   *string             `json:"activity_intensity"`
}

type planResponse struct {
	Itinerary domain.Itinerary `json:"itinerary"`
	HistoryID *uuid.UUID       `json:"history_id"`
}

// plan handles POST /api/planning.
func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		s.denyUnauthorized(w, r, domain.ErrUnauthorized)
		return
	}

	var body planRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	if problems := body.validate(); len(problems) > 0 {
		writeFail(w, http.StatusBadRequest, "Input validation failed.", problems)
		return
	}

	rec, err := s.planning.Plan(r.Context(), userID, body.toDomain())
	if err != nil {
		if errors.Is(err, domain.ErrStorage) {
			// The plan is good; only the history write failed.
			writeOK(w, http.StatusOK, "Trip plan generated, but it could not be saved to history.",
				planResponse{Itinerary: rec.Itinerary})
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, "Trip plan generated successfully.",
		planResponse{Itinerary: rec.Itinerary, HistoryID: &rec.ID})
}

// validate reports missing required fields and enum violations per field.
// Cross-field rules (dates vs duration) are left to domain.TripRequest.Validate.
func (b planRequest) validate() fieldErrors {
	problems := fieldErrors{}
	const missing = "Missing data for required field."

	if b.TravelDestination == nil {
		problems.add("travel_destination", missing)
	} else if strings.TrimSpace(*b.TravelDestination) == "" {
		problems.add("travel_destination", "Shorter than minimum length 1.")
	}
	if b.TripDuration != nil && *b.TripDuration < 1 {
		problems.add("trip_duration", "Must be greater than or equal to 1.")
	}
	if b.ActivityPreferences == nil {
		problems.add("activity_preferences", missing)
	} else if len(b.ActivityPreferences) == 0 {
		problems.add("activity_preferences", "Shorter than minimum length 1.")
	}
	if b.TravelBudget == nil {
		problems.add("travel_budget", missing)
	} else if *b.TravelBudget < 0 {
		problems.add("travel_budget", "Must be greater than or equal to 0.")
	}
	if b.TravelStyle == nil {
		problems.add("travel_style", missing)
	} else if !domain.TravelStyle(*b.TravelStyle).Valid() {
		problems.add("travel_style", "Must be one of: "+joinStyles()+".")
	}
	if b.ActivityIntensity == nil {
		problems.add("activity_intensity", missing)
	} else if !domain.ActivityIntensity(*b.ActivityIntensity).Valid() {
		problems.add("activity_intensity", "Must be one of: "+joinIntensities()+".")
	}
	return problems
}

// toDomain converts a validated body. Call validate first.
func (b planRequest) toDomain() domain.TripRequest {
	req := domain.TripRequest{
		Destination:         strings.TrimSpace(*b.TravelDestination),
		TripDuration:        b.TripDuration,
		ActivityPreferences: b.ActivityPreferences,
		TravelBudget:        *b.TravelBudget,
		TravelStyle:         domain.TravelStyle(*b.TravelStyle),
		ActivityIntensity:   domain.ActivityIntensity(*b.ActivityIntensity),
	}
	if b.StartDate != nil {
		sd := b.StartDate.Time
		req.StartDate = &sd
	}
	if b.EndDate != nil {
		ed := b.EndDate.Time
		req.EndDate = &ed
	}
	return req
}

func joinStyles() string {
	s := make([]string, len(domain.TravelStyles))
	for i, v := range domain.TravelStyles {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

func joinIntensities() string {
	s := make([]string, len(domain.ActivityIntensities))
	for i, v := range domain.ActivityIntensities {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
