package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/repo"
)

// HistoryService reads a user's past trip plans.
type HistoryService struct {
	repo         repo.HistoryRepo
	defaultLimit int
}

// NewHistoryService constructs a HistoryService. defaultLimit applies when a
// caller does not ask for a page size; non-positive means domain.DefaultHistoryLimit.
func NewHistoryService(r repo.HistoryRepo, defaultLimit int) *HistoryService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultHistoryLimit
	}
	return &HistoryService{repo: r, defaultLimit: defaultLimit}
}

// List returns the user's most recent records, newest first.
// A nil or non-positive limit selects the default; larger values are capped
// at domain.MaxHistoryLimit.
func (s *HistoryService) List(ctx context.Context, userID uuid.UUID, limit *int) ([]domain.HistoryRecord, error) {
	records, err := s.repo.ListByUser(ctx, userID, domain.HistoryLimit(limit, s.defaultLimit))
	if err != nil {
		return nil, fmt.Errorf("service.HistoryService.List: %w", err)
	}
	return records, nil
}

// Get returns one record owned by the user, or domain.ErrNotFound.
func (s *HistoryService) Get(ctx context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error) {
	rec, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("service.HistoryService.Get: %w", err)
	}
	return rec, nil
}
