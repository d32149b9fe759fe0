// Package cache stores generated road networks and rendered artifacts so a
// repeated run with the same strategy, seed and options is served from disk.
//
// Keys come from a [Keyer]; values are opaque bytes. [FileCache] is used by
// the CLI and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	GraphTTL    = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the value for key and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
