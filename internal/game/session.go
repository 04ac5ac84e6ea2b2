package game

import "context"

// Session is one player's game state: the phase flag plus the transcript.
// The zero value is a fresh, not-yet-started game.
type Session struct {
	Phase      Phase
	Transcript Transcript
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	return Session{Phase: s.Phase, Transcript: s.Transcript.Clone()}
}

// Store persists sessions keyed by a client session identifier.
// Get returns the zero-value Session for an absent id — callers never see a
// not-found error. Implementations must not alias stored transcripts with
// the values they accept or return.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, id string, s Session) error
	Clear(ctx context.Context, id string) error
}
