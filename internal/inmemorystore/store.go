// Package inmemorystore provides an ephemeral, thread-safe, in-memory store
// for the variables of one calculator session.
//
// # Concurrency Model
//
// Every formula evaluation reads the whole variable set, so reads take a
// consistent snapshot under a sync.RWMutex rather than ranging over a
// sync.Map, which would allow a concurrent write to be half observed.
// Snapshots are copies; callers may keep and mutate them freely.
//
// Variables are only ever overwritten, never deleted.
package inmemorystore

import (
	"sync"

	"github.com/vk/calcform/internal/formula"
)

// Store holds variable values keyed by name.
type Store struct {
	mu   sync.RWMutex
	vars formula.Variables
}

// New creates a new, empty in-memory variable store.
func New() *Store {
	return &Store{vars: make(formula.Variables)}
}

// Set records the value of a variable, overwriting any previous value.
func (s *Store) Set(name string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
}

// SetIfAbsent records value only when name has never been set. It reports
// whether the value was stored.
func (s *Store) SetIfAbsent(name string, value float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vars[name]; ok {
		return false
	}
	s.vars[name] = value
	return true
}

// Get retrieves the value of a variable. The boolean is false when the
// variable has never been set.
func (s *Store) Get(name string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// Snapshot returns a copy of every variable.
func (s *Store) Snapshot() formula.Variables {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vars.Clone()
}
