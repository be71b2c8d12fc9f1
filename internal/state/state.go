// Package state keeps a small activity journal of yati worktrees in SQLite.
// It is only used to order the interactive picker; no lifecycle decision
// reads it.
package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// EventKind is the kind of a journal entry.
type EventKind string

const (
	Created     EventKind = "created"
	Activated   EventKind = "activated"
	Deactivated EventKind = "deactivated"
	TornDown    EventKind = "torn_down"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
    id       TEXT PRIMARY KEY,
    session  TEXT NOT NULL,
    kind     TEXT NOT NULL,
    path     TEXT NOT NULL DEFAULT '',
    at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS events_session ON events(session, at);

CREATE TABLE IF NOT EXISTS worktrees (
    session        TEXT PRIMARY KEY,
    path           TEXT NOT NULL DEFAULT '',
    last_activated INTEGER,
    removed        INTEGER NOT NULL DEFAULT 0,
    updated_at     INTEGER NOT NULL
);
`

// Store wraps a SQLite database for the activity journal.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns $XDG_STATE_HOME/yati/state.db, falling back to
// ~/.local/state when XDG_STATE_HOME is unset.
func DefaultPath(home string) string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "yati", "state.db")
}

// Open creates or opens the journal at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for safe concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an event for session and updates its summary row.
func (s *Store) Record(ctx context.Context, kind EventKind, session, path string) error {
	at := s.now().UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, session, kind, path, at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), session, string(kind), path, at,
	); err != nil {
		return err
	}

	var lastActivated interface{}
	if kind == Activated || kind == Created {
		lastActivated = at
	}
	removed := 0
	if kind == TornDown {
		removed = 1
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO worktrees (session, path, last_activated, removed, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session) DO UPDATE SET
			path = excluded.path,
			last_activated = COALESCE(excluded.last_activated, worktrees.last_activated),
			removed = excluded.removed,
			updated_at = excluded.updated_at
	`, session, path, lastActivated, removed, at); err != nil {
		return err
	}

	return tx.Commit()
}

// LastActivated returns, per session that has not been torn down, the time it
// was last created or activated.
func (s *Store) LastActivated(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session, last_activated FROM worktrees WHERE removed = 0 AND last_activated IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]time.Time)
	for rows.Next() {
		var name string
		var at int64
		if err := rows.Scan(&name, &at); err != nil {
			return nil, err
		}
		result[name] = time.Unix(0, at)
	}
	return result, rows.Err()
}
