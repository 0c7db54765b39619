// Package domain contains the core data types for the trip planner.
// Apart from uuid it has no external dependencies and is imported by every
// other internal package (repo, service, handler, prompt, gemini).
package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used on the wire, in the
// prompt, and in the request snapshot stored with each history record.
const DateLayout = "2006-01-02"

// TravelStyle is the kind of party the trip is planned for.
type TravelStyle string

const (
	StyleSolo     TravelStyle = "Solo traveler"
	StyleRomantic TravelStyle = "Romantic couple"
	StyleFamily   TravelStyle = "Family with children"
	StyleBackpack TravelStyle = "Backpacker"
	StyleLuxury   TravelStyle = "Luxury traveler"
)

// TravelStyles lists every accepted TravelStyle in display order.
var TravelStyles = []TravelStyle{StyleSolo, StyleRomantic, StyleFamily, StyleBackpack, StyleLuxury}

// Valid reports whether s is one of the fixed travel styles.
func (s TravelStyle) Valid() bool {
	for _, v := range TravelStyles {
		if s == v {
			return true
		}
	}
	return false
}

// ActivityIntensity controls how packed each planned day is.
type ActivityIntensity string

const (
	IntensityRelaxed  ActivityIntensity = "Relaxed"
	IntensityBalanced ActivityIntensity = "Balanced"
	IntensityFull     ActivityIntensity = "Full"
)

// ActivityIntensities lists every accepted ActivityIntensity.
var ActivityIntensities = []ActivityIntensity{IntensityRelaxed, IntensityBalanced, IntensityFull}

// Valid reports whether a is one of the fixed intensity levels.
func (a ActivityIntensity) Valid() bool {
	for _, v := range ActivityIntensities {
		if a == v {
			return true
		}
	}
	return false
}

// TripRequest is a user's trip preferences for a single planning call.
// It lives only for the duration of that call; what is persisted is the
// Snapshot taken from it.
//
// Either both StartDate and EndDate, or TripDuration, must be set. Both forms
// may be present at once.
type TripRequest struct {
	Destination         string
	StartDate           *time.Time
	EndDate             *time.Time
	TripDuration        *int
	ActivityPreferences []string
	TravelBudget        float64
	TravelStyle         TravelStyle
	ActivityIntensity   ActivityIntensity
}

// HasDates reports whether both calendar dates are present.
func (r TripRequest) HasDates() bool {
	return r.StartDate != nil && r.EndDate != nil
}

// Validate enforces the request invariants. Every returned error wraps
// ErrValidation so handlers can map it to a 400.
func (r TripRequest) Validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("%w: travel_destination is required", ErrValidation)
	}
	if r.TripDuration != nil && *r.TripDuration < 1 {
		return fmt.Errorf("%w: trip_duration must be at least 1", ErrValidation)
	}
	if !r.HasDates() && r.TripDuration == nil {
		return fmt.Errorf("%w: provide start_date/end_date or trip_duration", ErrValidation)
	}
	if r.HasDates() && r.EndDate.Before(*r.StartDate) {
		return fmt.Errorf("%w: end_date cannot be before start_date", ErrValidation)
	}
	if len(r.ActivityPreferences) == 0 {
		return fmt.Errorf("%w: activity_preferences must not be empty", ErrValidation)
	}
	for _, p := range r.ActivityPreferences {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: activity_preferences must not contain blank entries", ErrValidation)
		}
	}
	if r.TravelBudget < 0 {
		return fmt.Errorf("%w: travel_budget must not be negative", ErrValidation)
	}
	if !r.TravelStyle.Valid() {
		return fmt.Errorf("%w: travel_style %q is not supported", ErrValidation, r.TravelStyle)
	}
	if !r.ActivityIntensity.Valid() {
		return fmt.Errorf("%w: activity_intensity %q is not supported", ErrValidation, r.ActivityIntensity)
	}
	return nil
}

// DurationDays returns the trip length in days: TripDuration when given,
// otherwise the inclusive day count between the dates. Zero if neither.
func (r TripRequest) DurationDays() int {
	if r.TripDuration != nil {
		return *r.TripDuration
	}
	if r.HasDates() {
		return int((civilDay(*r.EndDate)-civilDay(*r.StartDate))/secondsPerDay) + 1
	}
	return 0
}

const secondsPerDay = 24 * 60 * 60

// civilDay returns the Unix seconds of t's calendar date at UTC midnight.
// time.Duration cannot span more than ~292 years, so spans are counted in
// seconds instead.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

// Snapshot renders the request as a JSON-compatible map for storage.
// Dates become YYYY-MM-DD strings and absent optional fields are omitted.
// Keys match the planning endpoint's request body.
func (r TripRequest) Snapshot() map[string]any {
	prefs := make([]any, len(r.ActivityPreferences))
	for i, p := range r.ActivityPreferences {
		prefs[i] = p
	}
	m := map[string]any{
		"travel_destination":   r.Destination,
		"activity_preferences": prefs,
		"travel_budget":        r.TravelBudget,
		"travel_style":         string(r.TravelStyle),
		"activity_intensity":   string(r.ActivityIntensity),
	}
	if r.StartDate != nil {
		m["start_date"] = r.StartDate.Format(DateLayout)
	}
	if r.EndDate != nil {
		m["end_date"] = r.EndDate.Format(DateLayout)
	}
	if r.TripDuration != nil {
		m["trip_duration"] = float64(*r.TripDuration)
	}
	return m
}
