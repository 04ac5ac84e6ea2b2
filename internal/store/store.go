// Package store provides session persistence for the game engine: an
// in-memory map store and a SQLite-backed store, both implementing
// game.Store. The engine serializes turns per session id, so neither
// implementation needs its own per-session locking beyond map safety.
package store

import "time"

// Purger is implemented by stores that support TTL-based session cleanup.
// The serve command runs a periodic sweep against it.
type Purger interface {
	PurgeExpired(ttl time.Duration) (int, error)
}
