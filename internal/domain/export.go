package domain

import (
	"fmt"
	"strconv"
)

// MaxExportRows bounds a single history export.
const MaxExportRows = 1000

// ExportRow is one history record flattened for tabular export.
// Optional fields are empty strings when absent.
type ExportRow struct {
	HistoryID           string
	Destination         string
	StartDate           string
	EndDate             string
	TripDuration        string
	TravelBudget        string
	TravelStyle         string
	ActivityIntensity   string
	ActivityPreferences []string
	RequestedOn         string
}

// NewExportRow flattens rec. Request fields come from the stored snapshot so
// the row reflects exactly what was submitted.
func NewExportRow(rec HistoryRecord) ExportRow {
	row := ExportRow{
		HistoryID:         rec.ID.String(),
		Destination:       rec.Destination,
		TripDuration:      snapshotString(rec.Request, "trip_duration"),
		TravelBudget:      snapshotString(rec.Request, "travel_budget"),
		TravelStyle:       snapshotString(rec.Request, "travel_style"),
		ActivityIntensity: snapshotString(rec.Request, "activity_intensity"),
		RequestedOn:       rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if rec.StartDate != nil {
		row.StartDate = rec.StartDate.Format(DateLayout)
	}
	if rec.EndDate != nil {
		row.EndDate = rec.EndDate.Format(DateLayout)
	}
	if prefs, ok := rec.Request["activity_preferences"].([]any); ok {
		for _, p := range prefs {
			row.ActivityPreferences = append(row.ActivityPreferences, fmt.Sprint(p))
		}
	}
	return row
}

func snapshotString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
