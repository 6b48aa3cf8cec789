// Package state owns the process-wide mapping from conversation identity to
// the mutable record a conversation is building toward. The store is strictly
// partitioned by identity; operations against different identities never
// observe each other's records.
package state

import (
	"sync"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/identity"
)

// Store maps conversation identities to records of type R. R is expected to
// be a pointer type; fresh constructs a default-valued record and stamps its
// creation time. All access runs under one mutex so a field update is visible
// to the very next lookup for the same identity.
type Store[R any] struct {
	mu      sync.Mutex
	records map[identity.Identity]R
	fresh   func() R
}

// NewStore creates an empty store. fresh must not be nil.
func NewStore[R any](fresh func() R) *Store[R] {
	return &Store[R]{
		records: make(map[identity.Identity]R),
		fresh:   fresh,
	}
}

// GetOrCreate returns the record for id, creating a fresh one on first touch.
func (s *Store[R]) GetOrCreate(id identity.Identity) R {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id)
}

func (s *Store[R]) getOrCreateLocked(id identity.Identity) R {
	if rec, ok := s.records[id]; ok {
		return rec
	}
	rec := s.fresh()
	s.records[id] = rec
	return rec
}

// Reset unconditionally replaces the record for id with a fresh default,
// discarding prior field values. It never fails.
func (s *Store[R]) Reset(id identity.Identity) R {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.fresh()
	s.records[id] = rec
	return rec
}

// Update runs fn against the record for id (creating it if absent) while the
// store lock is held, then returns the record. Mutations inside fn are the
// only sanctioned way to change a record once conversations run concurrently.
func (s *Store[R]) Update(id identity.Identity, fn func(R)) R {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.getOrCreateLocked(id)
	if fn != nil {
		fn(rec)
	}
	return rec
}

// View runs fn read-only against the record for id under the store lock.
func (s *Store[R]) View(id identity.Identity, fn func(R)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.getOrCreateLocked(id)
	if fn != nil {
		fn(rec)
	}
}

// Len reports how many identities currently hold a record.
func (s *Store[R]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
