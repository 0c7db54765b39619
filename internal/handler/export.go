package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/smarttrip/tripplanner/internal/auth"
	"github.com/smarttrip/tripplanner/internal/domain"
)

// csvHeaders defines the column names written as the first row of a CSV export.
var csvHeaders = []string{
	"history_id", "destination_city", "start_date", "end_date", "trip_duration",
	"travel_budget", "travel_style", "activity_intensity", "activity_preferences",
	"requested_on",
}

// exportRow is the JSON form of domain.ExportRow; the field sets must match.
type exportRow struct {
	HistoryID           string   `json:"history_id"`
	Destination         string   `json:"destination_city"`
	StartDate           string   `json:"start_date,omitempty"`
	EndDate             string   `json:"end_date,omitempty"`
	TripDuration        string   `json:"trip_duration,omitempty"`
	TravelBudget        string   `json:"travel_budget"`
	TravelStyle         string   `json:"travel_style"`
	ActivityIntensity   string   `json:"activity_intensity"`
	ActivityPreferences []string `json:"activity_preferences"`
	RequestedOn         string   `json:"requested_on"`
}

// exportHistory handles GET /api/history/export.
// It returns one flat row per history record. Use ?format=csv to receive
// CSV; default is JSON.
func (s *Server) exportHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		s.denyUnauthorized(w, r, domain.ErrUnauthorized)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeFail(w, http.StatusBadRequest, "Input validation failed.",
			fieldErrors{"format": {"Must be one of: json, csv."}})
		return
	}

	rows, err := s.export.Export(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	data := make([]exportRow, len(rows))
	for i, row := range rows {
		data[i] = exportRow(row)
	}
	writeOK(w, http.StatusOK, "Trip history exported successfully.", data)
}

// writeCSV encodes rows as CSV. Preferences within a row are pipe-separated
// ("|") to keep each record on a single line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// bytes.Buffer writes never fail.
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write([]string{
			row.HistoryID,
			row.Destination,
			row.StartDate,
			row.EndDate,
			row.TripDuration,
			row.TravelBudget,
			row.TravelStyle,
			row.ActivityIntensity,
			strings.Join(row.ActivityPreferences, "|"),
			row.RequestedOn,
		})
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trip-history.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
