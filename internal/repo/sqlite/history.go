package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/repo"
)

type historyRepo struct {
	db *sql.DB
}

// NewHistoryRepo returns a repo.HistoryRepo stored in db.
func NewHistoryRepo(db *sql.DB) repo.HistoryRepo {
	return &historyRepo{db: db}
}

const historyColumns = `id, user_id, request_input, generated_itinerary, created_at, destination_city, start_date, end_date`

func (r *historyRepo) Create(ctx context.Context, rec domain.HistoryRecord) (domain.HistoryRecord, error) {
	requestJSON, err := json.Marshal(rec.Request)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("sqlite.HistoryRepo.Create: encode request: %w", err)
	}
	itineraryJSON, err := json.Marshal(rec.Itinerary)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("sqlite.HistoryRepo.Create: encode itinerary: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("sqlite.HistoryRepo.Create: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trip_plan_histories (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.UserID.String(), string(requestJSON), string(itineraryJSON),
		formatTime(rec.CreatedAt), rec.Destination, formatDate(rec.StartDate), formatDate(rec.EndDate),
	)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("sqlite.HistoryRepo.Create: %w", err)
	}

	result, err := scanHistory(tx.QueryRowContext(ctx,
		`SELECT `+historyColumns+` FROM trip_plan_histories WHERE id = ?`, rec.ID.String()))
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("sqlite.HistoryRepo.Create: reload: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("sqlite.HistoryRepo.Create: commit: %w", err)
	}
	return result, nil
}

func (r *historyRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+historyColumns+`
		FROM trip_plan_histories
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite.HistoryRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	records := []domain.HistoryRecord{}
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite.HistoryRepo.ListByUser: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.HistoryRepo.ListByUser: rows: %w", err)
	}
	return records, nil
}

func (r *historyRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error) {
	rec, err := scanHistory(r.db.QueryRowContext(ctx, `
		SELECT `+historyColumns+`
		FROM trip_plan_histories
		WHERE id = ? AND user_id = ?`, id.String(), userID.String()))
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("sqlite.HistoryRepo.GetByID: %w", err)
	}
	return rec, nil
}

func scanHistory(s scanner) (domain.HistoryRecord, error) {
	var (
		rec                     domain.HistoryRecord
		id, userID, createdAt   string
		requestJSON, itinerary  string
		destination, start, end sql.NullString
	)
	err := s.Scan(&id, &userID, &requestJSON, &itinerary, &createdAt, &destination, &start, &end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.HistoryRecord{}, domain.ErrNotFound
		}
		return domain.HistoryRecord{}, err
	}

	if rec.ID, err = uuid.Parse(id); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("parse id: %w", err)
	}
	if rec.UserID, err = uuid.Parse(userID); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("parse user_id: %w", err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(requestJSON), &rec.Request); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("decode request_input: %w", err)
	}
	if err := json.Unmarshal([]byte(itinerary), &rec.Itinerary); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("decode generated_itinerary: %w", err)
	}
	rec.Destination = destination.String
	if rec.StartDate, err = parseDate(start); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("parse start_date: %w", err)
	}
	if rec.EndDate, err = parseDate(end); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("parse end_date: %w", err)
	}
	return rec, nil
}
