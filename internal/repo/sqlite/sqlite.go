// Package sqlite implements the repo interfaces on an embedded SQLite
// database (modernc.org/sqlite, no cgo). It backs local development and
// tests that should not need a running Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Timestamps are stored as fixed-width UTC text so that lexical order in
// ORDER BY matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Open opens (or creates) the database file at path and verifies
// connectivity. Every pooled connection runs with foreign keys enforced, WAL
// journaling and a busy timeout so concurrent writers wait instead of failing.
//
// path may be a bare file path or a "file:"/"sqlite:" URI; query parameters
// on it are kept alongside the pragmas above.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	file, dsn, err := buildDSN(path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.Open: ping: %w", err)
	}
	return db, nil
}

var pragmas = []string{"foreign_keys(ON)", "journal_mode(WAL)", "busy_timeout(5000)"}

var uriPrefixes = []string{"sqlite://", "file://", "sqlite:", "file:"}

// buildDSN splits path into the database file and the driver DSN.
func buildDSN(path string) (file, dsn string, err error) {
	path = strings.TrimSpace(path)
	for _, p := range uriPrefixes {
		if strings.HasPrefix(path, p) {
			path = strings.TrimPrefix(path, p)
			break
		}
	}
	file, rawQuery, _ := strings.Cut(path, "?")
	if file == "" {
		return "", "", errors.New("path is empty")
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", "", fmt.Errorf("parse query of %q: %w", path, err)
	}
	for _, p := range pragmas {
		query.Add("_pragma", p)
	}
	return file, "file:" + file + "?" + query.Encode(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func formatDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format("2006-01-02"), Valid: true}
}

func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}

type scanner interface {
	Scan(dest ...any) error
}
