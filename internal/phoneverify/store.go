package phoneverify

import (
	"context"
	"sync"
	"time"
)

// Store holds challenges by ID.
type Store interface {
	Put(ctx context.Context, ch Challenge)
	// Get returns the challenge for id, expired or not. ok is false if it is missing.
	Get(ctx context.Context, id string) (ch Challenge, ok bool)
	Delete(ctx context.Context, id string)
}

// MemoryStore is an in-process Store. Expired challenges are removed by Sweep and on Put.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]Challenge
	nowF func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]Challenge),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Put stores ch, replacing any challenge with the same ID.
func (s *MemoryStore) Put(ctx context.Context, ch Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.m[ch.ID] = ch
}

// Get returns a copy of the challenge for id.
func (s *MemoryStore) Get(ctx context.Context, id string) (Challenge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.m[id]
	return ch, ok
}

// Delete removes id. Missing IDs are ignored.
func (s *MemoryStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

// Sweep drops expired challenges and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

// Len returns the number of stored challenges.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *MemoryStore) sweepLocked() int {
	now := s.nowF()
	n := 0
	for id, ch := range s.m {
		if !ch.ExpiresAt.After(now) {
			delete(s.m, id)
			n++
		}
	}
	return n
}
