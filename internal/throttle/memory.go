package throttle

import (
	"context"
	"sync"
	"time"
)

// cleanupEvery is the mutation count between sweeps. Amortizing the sweep
// over writes bounds memory growth from distinct identities without a
// per-request scan or a background timer.
const cleanupEvery = 200

// MemoryStore is the default process-local throttle store: a mutex-guarded
// map with write-counter amortized cleanup.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]Entry
	writeCount int
	retainFor  time.Duration
	now        func() time.Time
}

// NewMemoryStore creates a MemoryStore. retainFor is how long an idle,
// unlocked entry survives before a sweep may remove it; callers set it to
// twice the lockout duration so lockout bookkeeping always outlives the
// lockout itself.
func NewMemoryStore(retainFor time.Duration) *MemoryStore {
	return &MemoryStore{
		entries:   make(map[string]Entry),
		retainFor: retainFor,
		now:       time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry
	s.maybeSweep()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	s.maybeSweep()
	return nil
}

// maybeSweep runs a full sweep on every cleanupEvery-th mutation, removing
// entries that are idle past the retention horizon and no longer locked.
// Callers must hold s.mu.
func (s *MemoryStore) maybeSweep() {
	s.writeCount++
	if s.writeCount%cleanupEvery != 0 {
		return
	}

	now := s.now()
	for key, entry := range s.entries {
		if now.Sub(entry.LastSeenAt) > s.retainFor && now.After(entry.LockedUntil) {
			delete(s.entries, key)
		}
	}
}
