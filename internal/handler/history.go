package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/smarttrip/tripplanner/internal/auth"
	"github.com/smarttrip/tripplanner/internal/domain"
)

// historyResponse is the wire form of a history record.
type historyResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	DestinationCity string              `json:"destination_city"`
	StartDate       *openapi_types.Date `json:"start_date"`
	EndDate         *openapi_types.Date `json:"end_date"`
	RequestedOn     time.Time           `json:"requested_on"`
	Input           map[string]any      `json:"input"`
	Itinerary       domain.Itinerary    `json:"itinerary"`
}

// listHistory handles GET /api/history.
// Supports ?limit= (default from configuration, max domain.MaxHistoryLimit).
// Zero or negative limits fall back to the default; non-integers are a 400.
func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		s.denyUnauthorized(w, r, domain.ErrUnauthorized)
		return
	}

	var limit *int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "Input validation failed.",
				fieldErrors{"limit": {"Not a valid integer."}})
			return
		}
		limit = &n
	}

	records, err := s.history.List(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := make([]historyResponse, len(records))
	for i, rec := range records {
		data[i] = historyToResponse(rec)
	}
	writeOK(w, http.StatusOK, "Trip history retrieved successfully.", data)
}

// getHistory handles GET /api/history/{id}.
func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		s.denyUnauthorized(w, r, domain.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeFail(w, http.StatusNotFound, "Trip plan history not found.", nil)
		return
	}

	rec, err := s.history.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Trip plan history not found.", nil)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Trip history retrieved successfully.", historyToResponse(rec))
}

// historyToResponse converts a domain.HistoryRecord into its wire form.
func historyToResponse(rec domain.HistoryRecord) historyResponse {
	resp := historyResponse{
		ID:              rec.ID,
		UserID:          rec.UserID,
		DestinationCity: rec.Destination,
		RequestedOn:     rec.CreatedAt,
		Input:           rec.Request,
		Itinerary:       rec.Itinerary,
	}
	if rec.StartDate != nil {
		resp.StartDate = &openapi_types.Date{Time: *rec.StartDate}
	}
	if rec.EndDate != nil {
		resp.EndDate = &openapi_types.Date{Time: *rec.EndDate}
	}
	return resp
}
