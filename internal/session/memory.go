package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a store whose sessions expire after ttl of inactivity.
// A zero ttl keeps sessions until deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, ttl/6),
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	if x, found := m.cache.Get(id); found {
		return x.(*Session), nil
	}
	return nil, ErrNotFound
}

// Save stores the session and restarts its expiry
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.cache.Set(s.ID(), s, cache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.cache.Delete(id)
	return nil
}

func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}
