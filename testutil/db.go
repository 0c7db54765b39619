// Package testutil provides database fixtures shared by the repository and
// migration tests. Postgres fixtures are opt-in through TEST_DATABASE_URL and
// skip when it is unset; SQLite fixtures always run against a file in the
// test's temp dir.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/smarttrip/tripplanner/internal/repo/sqlite"
	"github.com/smarttrip/tripplanner/migrations"
)

// PostgresDSNEnv names the variable holding the integration database DSN.
const PostgresDSNEnv = "TEST_DATABASE_URL"

// Migrate applies every pending migration for driver to db.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	provider, err := migrations.NewProvider(db, driver)
	if err != nil {
		return fmt.Errorf("testutil.Migrate: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("testutil.Migrate: %s up: %w", driver, err)
	}
	return nil
}

// NewPool returns a pgx pool on the integration database, closed when the
// test finishes. Schema is left to the package's TestMain.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewPostgresDB returns a database/sql handle on the integration database,
// for goose. Closed when the test finishes.
func NewPostgresDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openPostgres(requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPostgresDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewSQLiteDB opens an empty SQLite database under t.TempDir(). Pass
// migrate=true to apply the schema.
func NewSQLiteDB(t *testing.T, migrate bool) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "tripplanner.db"))
	if err != nil {
		t.Fatalf("testutil.NewSQLiteDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if migrate {
		if err := Migrate(ctx, db, migrations.DriverSQLite); err != nil {
			t.Fatalf("testutil.NewSQLiteDB: %v", err)
		}
	}
	return db
}

// MustMigratePostgres migrates the database at dsn and panics on failure.
// For TestMain, where no *testing.T is available.
func MustMigratePostgres(dsn string) {
	db, err := openPostgres(dsn)
	if err != nil {
		panic("testutil.MustMigratePostgres: " + err.Error())
	}
	defer db.Close()

	if err := Migrate(context.Background(), db, migrations.DriverPostgres); err != nil {
		panic("testutil.MustMigratePostgres: " + err.Error())
	}
}

func openPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skip(PostgresDSNEnv + " not set; skipping integration test")
	}
	return dsn
}
