// Package cache provides the read-through memoization layer the fetch
// components run behind. The reconciliation core never sees it.
package cache

import (
	"context"
	"time"
)

// Cache keys used by the analysis pipeline.
const (
	KeyCareerStats = "fangraphs:career-stats"
	KeyRostersBase = "fantrax:rosters:"
)

// ComputeFunc produces a payload on cache miss.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Cache is a get-or-compute store with per-key TTL. On a hit the cached
// payload is returned; on a miss compute runs, its result is stored for
// ttl and returned. Compute errors are never cached. Concurrent misses
// may race and compute twice; fetches are idempotent so both results are
// equivalent and no lock is held across compute.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]byte, error)
}

// RostersKey builds the cache key for one league's roster snapshot.
func RostersKey(leagueID string) string {
	return KeyRostersBase + leagueID
}
