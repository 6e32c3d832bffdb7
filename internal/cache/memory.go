package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is the in-process fallback used when no Redis URL is
// configured, and by tests. Entries expire lazily on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is swappable so TTL expiry is testable without sleeping.
	now func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// GetOrCompute returns the cached payload for key, or runs compute and
// stores its result for ttl. The lock is not held across compute, so
// concurrent misses may compute twice; last store wins.
func (mc *MemoryCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]byte, error) {
	mc.mu.Lock()
	entry, ok := mc.entries[key]
	if ok && mc.now().Before(entry.expiresAt) {
		mc.mu.Unlock()
		return entry.data, nil
	}
	delete(mc.entries, key)
	mc.mu.Unlock()

	data, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	mc.mu.Lock()
	mc.entries[key] = memoryEntry{data: data, expiresAt: mc.now().Add(ttl)}
	mc.mu.Unlock()

	return data, nil
}
