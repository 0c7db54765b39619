package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/repo"
)

// ExportService assembles a flat export of a user's trip plan history.
type ExportService struct {
	history repo.HistoryRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(history repo.HistoryRepo) *ExportService {
	return &ExportService{history: history}
}

// Export returns one ExportRow per history record, newest first, capped at
// domain.MaxExportRows.
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	records, err := s.history.ListByUser(ctx, userID, domain.MaxExportRows)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	rows := make([]domain.ExportRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.NewExportRow(rec))
	}
	return rows, nil
}
