// Package memstore is the default cache backend: an in-process map with
// per-entry TTL. Entries expire lazily on read; a process restart clears
// everything. There is no eviction beyond TTL.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/klacilab/region-rankings/internal/cache"
)

type entry struct {
	val       []byte
	expiresAt time.Time
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

var _ cache.Interface = (*Store)(nil)

type Option func(*Store)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		// Expired entries read as absent; drop them so the map does not
		// accumulate dead keys.
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.val, true, nil
}

func (s *Store) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	cp := make([]byte, len(val))
	copy(cp, val)

	s.mu.Lock()
	s.entries[key] = entry{val: cp, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Len reports the number of resident entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
