package store

import (
	"context"
	"sync"
	"time"

	"github.com/ignite/studio-insights/internal/pipeline"
)

// MemoryStore is the default single-process store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	dashboard *pipeline.Dashboard
	expiresAt time.Time
}

// NewMemoryStore builds an in-memory store. ttl <= 0 selects DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, d *pipeline.Dashboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[d.ID] = memoryEntry{dashboard: d, expiresAt: s.now().Add(s.ttl)}
	s.sweepLocked()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*pipeline.Dashboard, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || s.now().After(e.expiresAt) {
		return nil, ErrNotFound
	}
	return e.dashboard, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// sweepLocked drops expired entries. Called on writes, so an idle store
// never grows unbounded under steady upload traffic.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
