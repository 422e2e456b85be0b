// Package cache provides the Redis-backed adapter for the Cache port.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
)

// RedisCache adapts a go-redis client to the Cache port. Values are stored as
// raw bytes; serialization is the caller's concern.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a cache adapter for the given server address.
// Connectivity is not checked here; the cache is an optional capability and
// callers probe it with Ping when they care.
func NewRedisCache(addr, password string, db int) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: client}
}

var _ portssvc.Cache = (*RedisCache)(nil)

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client connections.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
