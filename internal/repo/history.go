package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/smarttrip/tripplanner/internal/domain"
)

// HistoryRepo defines the persistence operations for trip plan history.
// Records are append-only: there is no Update or Delete.
type HistoryRepo interface {
	// Create writes a complete record in a single transaction and returns
	// the persisted row. Either the whole record is stored or nothing is.
	Create(ctx context.Context, rec domain.HistoryRecord) (domain.HistoryRecord, error)

	// ListByUser returns up to limit records owned by userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HistoryRecord, error)

	// GetByID returns one record owned by userID.
	// Returns domain.ErrNotFound if it does not exist or belongs to someone else.
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error)
}

// pgHistoryRepo is the Postgres implementation of HistoryRepo.
type pgHistoryRepo struct {
	db db
}

// NewHistoryRepo constructs a HistoryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewHistoryRepo(db db) HistoryRepo {
	return &pgHistoryRepo{db: db}
}

const historyColumns = `id, user_id, request_input, generated_itinerary, created_at, destination_city, start_date, end_date`

// Create inserts the record inside its own transaction.
func (r *pgHistoryRepo) Create(ctx context.Context, rec domain.HistoryRecord) (domain.HistoryRecord, error) {
	const q = `
		INSERT INTO trip_plan_histories (` + historyColumns + `)
		VALUES (@id, @user_id, @request_input, @generated_itinerary, @created_at, @destination_city, @start_date, @end_date)
		RETURNING ` + historyColumns

	requestJSON, err := json.Marshal(rec.Request)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("repo.HistoryRepo.Create: encode request: %w", err)
	}
	itineraryJSON, err := json.Marshal(rec.Itinerary)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("repo.HistoryRepo.Create: encode itinerary: %w", err)
	}

	args := pgx.NamedArgs{
		"id":                  rec.ID,
		"user_id":             rec.UserID,
		"request_input":       requestJSON,
		"generated_itinerary": itineraryJSON,
		"created_at":          rec.CreatedAt,
		"destination_city":    rec.Destination,
		"start_date":          rec.StartDate, // nil becomes NULL
		"end_date":            rec.EndDate,
	}

	var result domain.HistoryRecord
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var scanErr error
		result, scanErr = scanHistory(tx.QueryRow(ctx, q, args))
		return scanErr
	})
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("repo.HistoryRepo.Create: %w", err)
	}
	return result, nil
}

// ListByUser returns the newest records for a user.
func (r *pgHistoryRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
	const q = `
		SELECT ` + historyColumns + `
		FROM trip_plan_histories
		WHERE user_id = @user_id
		ORDER BY created_at DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.HistoryRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	records := []domain.HistoryRecord{}
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.HistoryRepo.ListByUser: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.HistoryRepo.ListByUser: rows: %w", err)
	}
	return records, nil
}

// GetByID retrieves a record by primary key, scoped to its owner.
func (r *pgHistoryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error) {
	const q = `
		SELECT ` + historyColumns + `
		FROM trip_plan_histories
		WHERE id = @id AND user_id = @user_id`

	rec, err := scanHistory(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}))
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("repo.HistoryRepo.GetByID: %w", err)
	}
	return rec, nil
}

// scanHistory maps a single database row into a domain.HistoryRecord,
// decoding both JSONB columns.
func scanHistory(s scanner) (domain.HistoryRecord, error) {
	var (
		rec           domain.HistoryRecord
		id, userID    pgtype.UUID
		requestJSON   []byte
		itineraryJSON []byte
		destination   pgtype.Text
		start, end    pgtype.Date
	)

	err := s.Scan(&id, &userID, &requestJSON, &itineraryJSON, &rec.CreatedAt, &destination, &start, &end)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.HistoryRecord{}, domain.ErrNotFound
		}
		return domain.HistoryRecord{}, err
	}

	if err := json.Unmarshal(requestJSON, &rec.Request); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("decode request_input: %w", err)
	}
	if err := json.Unmarshal(itineraryJSON, &rec.Itinerary); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("decode generated_itinerary: %w", err)
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.UserID = uuid.UUID(userID.Bytes)
	rec.Destination = destination.String
	if start.Valid {
		sd := start.Time
		rec.StartDate = &sd
	}
	if end.Valid {
		ed := end.Time
		rec.EndDate = &ed
	}
	return rec, nil
}
