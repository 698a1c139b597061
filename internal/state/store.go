// Package state holds the shared charging flag.
// Single writer (the sensor's debounce worker), many readers
// (suppression scheduler, battery bridge, status tracker).
package state

import "sync/atomic"

// Store is an atomic boolean cell with last-write-wins semantics.
// The zero value is usable and reads as "not charging".
type Store struct {
	charging atomic.Bool
}

// NewStore creates a Store holding the given initial state.
func NewStore(charging bool) *Store {
	s := &Store{}
	s.charging.Store(charging)
	return s
}

// Set records the current charging state.
func (s *Store) Set(charging bool) {
	s.charging.Store(charging)
}

// Get returns the last recorded charging state.
func (s *Store) Get() bool {
	return s.charging.Load()
}
