// Package service contains the business logic for the trip planner.
// Services validate inputs, enforce business rules, and orchestrate the
// generation client and repo calls. No SQL lives here: services depend on
// repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/metrics"
	"github.com/smarttrip/tripplanner/internal/prompt"
	"github.com/smarttrip/tripplanner/internal/reconcile"
	"github.com/smarttrip/tripplanner/internal/repo"
)

// Generator produces raw text for a prompt. *gemini.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PlanningService turns a trip request into a stored itinerary.
// It holds no mutable state and is safe for concurrent use.
type PlanningService struct {
	gen     Generator
	history repo.HistoryRepo
	log     *slog.Logger
	now     func() time.Time
	newID   func() uuid.UUID
}

// PlanningOption customises a PlanningService.
type PlanningOption func(*PlanningService)

// WithClock overrides the clock used to timestamp history records.
func WithClock(now func() time.Time) PlanningOption {
	return func(s *PlanningService) { s.now = now }
}

// WithIDGenerator overrides how history record IDs are minted.
func WithIDGenerator(newID func() uuid.UUID) PlanningOption {
	return func(s *PlanningService) { s.newID = newID }
}

// NewPlanningService constructs a PlanningService.
func NewPlanningService(gen Generator, history repo.HistoryRepo, log *slog.Logger, opts ...PlanningOption) *PlanningService {
	if log == nil {
		log = slog.Default()
	}
	s := &PlanningService{
		gen:     gen,
		history: history,
		log:     log,
		now:     time.Now,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan validates req, generates an itinerary for it and records the pair in
// the user's history.
//
// Errors wrap one of domain.ErrValidation, domain.ErrConfiguration,
// domain.ErrServiceUnavailable or domain.ErrMalformedResponse; in those cases
// nothing is written. When only the history write fails, Plan returns the
// complete record together with an error wrapping domain.ErrStorage.
func (s *PlanningService) Plan(ctx context.Context, userID uuid.UUID, req domain.TripRequest) (domain.HistoryRecord, error) {
	log := s.log.With("user_id", userID)

	if err := req.Validate(); err != nil {
		metrics.ObservePlanning(metrics.OutcomeInvalid)
		return domain.HistoryRecord{}, fmt.Errorf("service.PlanningService.Plan: %w", err)
	}

	log.DebugContext(ctx, "compiling prompt", "destination", req.Destination)
	text := prompt.Compile(req)

	log.DebugContext(ctx, "generating itinerary", "prompt_chars", len(text))
	raw, err := s.gen.Generate(ctx, text)
	if err != nil {
		outcome := outcomeOf(err)
		metrics.ObservePlanning(outcome)
		log.ErrorContext(ctx, "itinerary generation failed", "outcome", outcome, "error", err)
		return domain.HistoryRecord{}, fmt.Errorf("service.PlanningService.Plan: %w", err)
	}

	log.DebugContext(ctx, "reconciling response", "response_chars", len(raw))
	itinerary, err := reconcile.Reconcile(raw)
	if err != nil {
		metrics.ObservePlanning(metrics.OutcomeMalformed)
		attrs := []any{"error", err}
		var rerr *reconcile.Error
		if errors.As(err, &rerr) {
			attrs = append(attrs, "sample", rerr.Sample)
		}
		log.ErrorContext(ctx, "generated itinerary is not valid JSON", attrs...)
		return domain.HistoryRecord{}, fmt.Errorf("service.PlanningService.Plan: %w", err)
	}

	rec := domain.NewHistoryRecord(s.newID(), userID, req, itinerary, s.now().UTC())

	log.DebugContext(ctx, "persisting history", "history_id", rec.ID)
	saved, err := s.history.Create(ctx, rec)
	if err != nil {
		metrics.ObservePlanning(metrics.OutcomeStorage)
		log.ErrorContext(ctx, "failed to save trip plan history", "history_id", rec.ID, "error", err)
		return rec, fmt.Errorf("service.PlanningService.Plan: %w: %w", domain.ErrStorage, err)
	}

	metrics.ObservePlanning(metrics.OutcomeSuccess)
	log.InfoContext(ctx, "trip plan generated", "history_id", saved.ID, "destination", saved.Destination)
	return saved, nil
}

// outcomeOf maps a generation error to its metrics outcome label.
func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return metrics.OutcomeConfiguration
	case errors.Is(err, domain.ErrServiceUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, domain.ErrMalformedResponse):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeInternal
	}
}
