// Package cache provides byte-level caching for graph snapshots and layout
// results. Backends include an in-directory file cache for CLI usage, a
// Redis cache for server deployments and a null cache for tests.
package cache

import (
	"context"
	"time"
)

// Cache is the byte-level caching contract. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
