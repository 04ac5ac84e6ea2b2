package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "sessions + turns: per-session game state",
		SQL: `
CREATE TABLE sessions (
    session_id     TEXT PRIMARY KEY,
    phase          TEXT NOT NULL DEFAULT 'not_started'
                   CHECK (phase IN ('not_started', 'awaiting_answer', 'awaiting_guess')),
    updated_at     INTEGER NOT NULL
);

CREATE INDEX idx_sessions_updated_at ON sessions(updated_at);

CREATE TABLE turns (
    session_id     TEXT NOT NULL,
    idx            INTEGER NOT NULL,
    question       TEXT NOT NULL,
    answer         TEXT,
    answered       INTEGER NOT NULL DEFAULT 0,

    PRIMARY KEY (session_id, idx),
    FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
);
`,
	},
}

// migrate applies pending migrations tracked in schema_version.
func (db *DB) migrate() error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version, applied_at) VALUES (?, strftime('%s','now'))`, m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}
