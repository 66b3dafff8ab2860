// Package cache provides a small byte cache for tool implementations.
// Caching is a tool-side policy: the gateway never caches on a tool's
// behalf, but tools that call slow or rate-limited upstreams can keep
// their own lookups here.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a TTL.
type Cache interface {
	// Get returns the value and true if the key is present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
