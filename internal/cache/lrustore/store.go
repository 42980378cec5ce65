// Package lrustore is a size-bounded cache backend built on an expirable
// LRU. It trades the memstore's exact per-entry TTLs for an upper bound on
// resident entries: the whole store shares one staleness budget, which
// matches the façade's single fixed TTL, and the least recently used entry
// is evicted once the bound is reached.
package lrustore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/klacilab/region-rankings/internal/cache"
)

type Store struct {
	lru *expirable.LRU[string, []byte]
	ttl time.Duration
}

var _ cache.Interface = (*Store)(nil)

// New builds a store holding at most size entries expiring after ttl.
// size 0 means unbounded; ttl <= 0 falls back to cache.DefaultTTL.
func New(size int, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Store{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
		ttl: ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

// Set stores val under key. The ttl argument is accepted for interface
// parity but the store's configured budget applies; every façade write
// carries the same TTL, so the two never disagree in practice.
func (s *Store) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	cp := make([]byte, len(val))
	copy(cp, val)
	s.lru.Add(key, cp)
	return nil
}
