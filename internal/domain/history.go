package domain

import (
	"time"

	"github.com/google/uuid"
)

// Itinerary is the generated plan: any syntactically valid JSON value,
// decoded by encoding/json into maps, slices, strings, float64, bool or nil.
// No schema is enforced on it.
type Itinerary = any

// HistoryRecord pairs a user's trip request with the itinerary generated for
// it. Records are written once, in a single transaction, and never updated.
// Destination and the dates are denormalized copies kept for indexed lookup.
type HistoryRecord struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Request     map[string]any
	Itinerary   Itinerary
	CreatedAt   time.Time
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
}

// NewHistoryRecord builds the record for a successful planning call.
func NewHistoryRecord(id, userID uuid.UUID, req TripRequest, itinerary Itinerary, createdAt time.Time) HistoryRecord {
	return HistoryRecord{
		ID:          id,
		UserID:      userID,
		Request:     req.Snapshot(),
		Itinerary:   itinerary,
		CreatedAt:   createdAt,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
}
