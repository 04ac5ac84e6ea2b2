package store

import (
	"context"
	"sync"
	"time"

	"github.com/lazypower/twentyq/internal/game"
)

// Memory is an in-memory game.Store. State is lost on restart; used when no
// database path is configured and throughout the tests.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]entry
}

type entry struct {
	session   game.Session
	updatedAt time.Time
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]entry)}
}

// Get returns a copy of the stored session, or the zero value if absent.
func (m *Memory) Get(ctx context.Context, id string) (game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return game.Session{}, nil
	}
	return e.session.Clone(), nil
}

// Put stores a copy of the session under id.
func (m *Memory) Put(ctx context.Context, id string, s game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = entry{session: s.Clone(), updatedAt: time.Now()}
	return nil
}

// Clear removes the session. Clearing an absent id is a no-op.
func (m *Memory) Clear(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// PurgeExpired removes sessions idle for longer than ttl and returns how
// many were dropped.
func (m *Memory) PurgeExpired(ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.updatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
