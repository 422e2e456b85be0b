package services

import (
	"context"
	"time"
)

// Cache defines a generic key-value capability for read-path caching.
// Adapters may be backed by Redis or an in-memory store; values are opaque
// serialized bytes. The cache is advisory: callers must treat any error as a
// miss and proceed against the primary store.
type Cache interface {
	// Get returns the value for key, a flag reporting whether it was present,
	// and any transport error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping verifies connectivity, for health reporting only.
	Ping(ctx context.Context) error
}
