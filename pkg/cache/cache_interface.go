package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer.
// Allows swapping implementations (Redis, in-memory for tests).
type Cache interface {
	// Get fetches data from cache and unmarshals it into dest.
	// Returns: (found bool, error)
	// - found = true: cache hit, data unmarshaled into dest
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores data in cache with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// SetNX stores the value only when the key does not exist yet.
	// Returns true when the key was set. Used as the short-lived
	// advisory settlement lock keyed by booking id.
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	// Delete removes keys from cache
	Delete(ctx context.Context, keys ...string) error

	// Exists reports whether a key is present
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the connection
	Ping(ctx context.Context) error
}
