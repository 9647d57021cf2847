package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultBusyTimeout = 5 * time.Second

// Open opens (creating if needed) the database file at path and ensures the
// schema exists. SQLite has a single writer, so the pool is capped at one
// connection; the uniqueness constraint still decides duplicate ballots.
//
// A locked database is retried for busyTimeout. The driver does not watch
// the context while it waits, so callers keep it within their own deadline.
func Open(ctx context.Context, path string, busyTimeout time.Duration) (*sql.DB, error) {
	if busyTimeout <= 0 {
		busyTimeout = defaultBusyTimeout
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += fmt.Sprintf("?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", busyTimeout.Milliseconds())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := CreateSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateSchema creates all tables. Safe to call multiple times.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS positions (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS candidates (
    id          TEXT PRIMARY KEY,
    position_id TEXT NOT NULL REFERENCES positions(id),
    name        TEXT NOT NULL,
    bio         TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidates_position_id ON candidates(position_id);

CREATE TABLE IF NOT EXISTS ballots (
    id           TEXT PRIMARY KEY,
    voter_id     TEXT NOT NULL,
    candidate_id TEXT NOT NULL REFERENCES candidates(id),
    position_id  TEXT NOT NULL REFERENCES positions(id),
    cast_at      TIMESTAMP NOT NULL,
    UNIQUE (voter_id, position_id)
);

CREATE INDEX IF NOT EXISTS idx_ballots_position_candidate ON ballots(position_id, candidate_id);
`
