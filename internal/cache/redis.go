package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache backs the get-or-compute layer with Redis so cached stats
// survive process restarts and are shared across instances.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// GetOrCompute returns the cached payload for key, or runs compute and
// stores its result for ttl. A degraded Redis never fails the run: read
// and write errors fall through to a fresh compute.
func (rc *RedisCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]byte, error) {
	val, err := rc.client.Get(ctx, key).Bytes()
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Printf("[cache] redis get %s failed: %v (recomputing)", key, err)
	}

	data, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := rc.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[cache] redis set %s failed: %v (result not cached)", key, err)
	}

	return data, nil
}
