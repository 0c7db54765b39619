package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/smarttrip/tripplanner/internal/config"
	"github.com/smarttrip/tripplanner/internal/repo"
	"github.com/smarttrip/tripplanner/internal/repo/sqlite"
)

// store bundles the repositories for the configured driver.
type store struct {
	users   repo.UserRepo
	history repo.HistoryRepo
	// sqlDB drives goose migrations.
	sqlDB *sql.DB
	ping  func(ctx context.Context) error
	close func()
}

// Ping implements handler.Pinger.
func (s *store) Ping(ctx context.Context) error { return s.ping(ctx) }

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &store{
			users:   sqlite.NewUserRepo(db),
			history: sqlite.NewHistoryRepo(db),
			sqlDB:   db,
			ping:    db.PingContext,
			close:   func() { _ = db.Close() },
		}, nil

	default:
		// pgxpool manages a pool of Postgres connections.
		// New() does not open connections immediately; the ping below does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		db := stdlib.OpenDBFromPool(pool)
		return &store{
			users:   repo.NewUserRepo(pool),
			history: repo.NewHistoryRepo(pool),
			sqlDB:   db,
			ping:    pool.Ping,
			close: func() {
				_ = db.Close()
				pool.Close()
			},
		}, nil
	}
}
