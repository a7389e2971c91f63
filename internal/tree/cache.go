package tree

import (
	"context"
	"sync"
	"time"
)

// DefaultFreshness is how long a fetched child list is served without a
// refetch. Collapsing and re-expanding a node inside this window is instant.
const DefaultFreshness = 5 * time.Minute

// CacheStore holds fetched child lists keyed by parent id. Entries expire
// after the store's freshness window; Get reports a miss for expired entries.
type CacheStore interface {
	Get(ctx context.Context, parentID string) ([]Node, bool, error)
	Set(ctx context.Context, parentID string, children []Node) error
	Invalidate(ctx context.Context, parentID string) error
}

type memoryEntry struct {
	children  []Node
	fetchedAt time.Time
}

// MemoryStore is the in-process CacheStore used when no Redis is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a memory-backed cache. A non-positive ttl falls back
// to DefaultFreshness.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, parentID string) ([]Node, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[parentID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.now().Sub(entry.fetchedAt) > s.ttl {
		return nil, false, nil
	}
	children := make([]Node, len(entry.children))
	copy(children, entry.children)
	return children, true, nil
}

func (s *MemoryStore) Set(_ context.Context, parentID string, children []Node) error {
	stored := make([]Node, len(children))
	copy(stored, children)
	s.mu.Lock()
	s.entries[parentID] = memoryEntry{children: stored, fetchedAt: s.now()}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, parentID string) error {
	s.mu.Lock()
	delete(s.entries, parentID)
	s.mu.Unlock()
	return nil
}
