// Package cache defines the store contract for the query-result cache.
package cache

import (
	"context"
	"time"
)

// Interface is the cache store seen by the query façade. Implementations
// synchronize internally; callers never lock around them.
//
// Get reports a miss both for keys that were never set and for entries
// whose TTL has elapsed; the two cases are indistinguishable on purpose.
// Set overwrites unconditionally and resets the entry's expiry from the
// call time. A Set racing another Set on the same key resolves
// last-write-wins.
type Interface interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// DefaultTTL is the shared staleness budget for every cacheable operation.
const DefaultTTL = 300 * time.Second
