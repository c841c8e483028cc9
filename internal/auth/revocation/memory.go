package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with a process-local map
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates a new memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, id string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)
	if !until.After(now) {
		return nil
	}
	s.revoked[id] = until
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[id]
	if !ok {
		return false, nil
	}
	if !until.After(s.now()) {
		delete(s.revoked, id)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Close() error { return nil }

// prune drops expired entries; callers hold mu
func (s *MemoryStore) prune(now time.Time) {
	for id, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, id)
		}
	}
}
