package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lazypower/twentyq/internal/game"
)

// Get loads a session and its turns. An absent id returns the zero session.
func (db *DB) Get(ctx context.Context, id string) (game.Session, error) {
	var phase string
	err := db.QueryRowContext(ctx, `
		SELECT phase FROM sessions WHERE session_id = ?
	`, id).Scan(&phase)
	if err == sql.ErrNoRows {
		return game.Session{}, nil
	}
	if err != nil {
		return game.Session{}, fmt.Errorf("get session: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT question, answer, answered FROM turns
		WHERE session_id = ? ORDER BY idx
	`, id)
	if err != nil {
		return game.Session{}, fmt.Errorf("get turns: %w", err)
	}
	defer rows.Close()

	var transcript game.Transcript
	for rows.Next() {
		var t game.Turn
		var answer sql.NullString
		var answered int
		if err := rows.Scan(&t.Question, &answer, &answered); err != nil {
			return game.Session{}, fmt.Errorf("scan turn: %w", err)
		}
		t.Answer = answer.String
		t.Answered = answered != 0
		transcript = append(transcript, t)
	}
	if err := rows.Err(); err != nil {
		return game.Session{}, fmt.Errorf("iterate turns: %w", err)
	}

	return game.Session{Phase: game.ParsePhase(phase), Transcript: transcript}, nil
}

// Put replaces the session row and all of its turn rows in one transaction,
// so a concurrent Get never observes a half-written transcript.
func (db *DB) Put(ctx context.Context, id string, s game.Session) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (session_id, phase, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET phase = excluded.phase, updated_at = excluded.updated_at
	`, id, s.Phase.String(), now); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clear turns: %w", err)
	}
	for i, t := range s.Transcript {
		var answer any
		if t.Answered {
			answer = t.Answer
		}
		answered := 0
		if t.Answered {
			answered = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO turns (session_id, idx, question, answer, answered)
			VALUES (?, ?, ?, ?, ?)
		`, id, i, t.Question, answer, answered); err != nil {
			return fmt.Errorf("insert turn %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put: %w", err)
	}
	return nil
}

// Clear deletes the session; turn rows go with it via ON DELETE CASCADE.
func (db *DB) Clear(ctx context.Context, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions idle for longer than ttl and returns how
// many were dropped.
func (db *DB) PurgeExpired(ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl).UnixMilli()
	result, err := db.Exec(`DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}
