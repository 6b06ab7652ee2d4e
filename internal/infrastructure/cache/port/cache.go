package port

import (
	"context"
	"time"
)

// Cache is the key-value cache contract used by the application, backed by
// Redis in production. Implementations must be safe for concurrent use and
// context-aware so callers control timeouts and cancellation.
//
// Values are plain strings; counters are int64. Serialization stays out of
// the port so adapters remain generic.
type Cache interface {
	// Get fetches the value for key. Misses are reported as ("", ErrMiss).
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key with the provided TTL. Zero or negative TTL
	// means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Incr atomically increments the counter at key by one and returns the
	// new value. A missing key counts from zero.
	Incr(ctx context.Context, key string) (int64, error)

	// Del removes one or more keys and returns the number of keys removed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Ping verifies connectivity with the cache backend.
	Ping(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// ErrMiss signals a cache miss in a typed way so callers can tell misses
// apart from transport errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
