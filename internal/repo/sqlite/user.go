package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/repo"
)

type userRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepo returns a repo.UserRepo stored in db.
func NewUserRepo(db *sql.DB) repo.UserRepo {
	return &userRepo{db: db, now: time.Now}
}

const userColumns = `id, email, full_name, password_hash, created_at`

func (r *userRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.CreatedAt = r.now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID.String(), u.Email, u.FullName, u.PasswordHash, formatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("sqlite.UserRepo.Create: %w: email already registered", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("sqlite.UserRepo.Create: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return domain.User{}, fmt.Errorf("sqlite.UserRepo.GetByEmail: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id.String()))
	if err != nil {
		return domain.User{}, fmt.Errorf("sqlite.UserRepo.GetByID: %w", err)
	}
	return u, nil
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u             domain.User
		id, createdAt string
	)
	if err := s.Scan(&id, &u.Email, &u.FullName, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	var err error
	if u.ID, err = uuid.Parse(id); err != nil {
		return domain.User{}, fmt.Errorf("parse id: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.User{}, fmt.Errorf("parse created_at: %w", err)
	}
	return u, nil
}
