// Package cache provides byte-level caching of solve results and rendered
// artifacts.
//
// # Backends
//
//   - [FileCache]: entries stored as JSON files under a directory (CLI)
//   - [RedisCache]: entries stored in Redis with native expiry (server)
//   - [NullCache]: never stores anything (caching disabled, tests)
//
// # Keys
//
// A [Keyer] derives cache keys from content hashes and the options that
// influence a result. Two definitions with identical bytes and identical
// solver options share a solve key:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.SolveKey(cache.Hash(defJSON), cache.SolveKeyOpts{MaxIterations: 100})
//
// [ScopedKeyer] prefixes every key, separating namespaces on a shared
// Redis instance.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	SolveTTL    = 7 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
)

// NullCache satisfies Cache without storing anything; every Get misses.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)       { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                    { return nil }
func (NullCache) Close() error                                            { return nil }
