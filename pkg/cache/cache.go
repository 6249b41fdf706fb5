// Package cache provides a byte-oriented key/value cache with pluggable
// backends.
//
// The CLI uses [FileCache] under the XDG cache directory; the HTTP service
// can share layouts across replicas through [RedisCache] or [MongoCache].
// [NullCache] disables caching entirely.
//
// Keys are produced by a [Keyer] so that every backend sees the same key
// space:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(fingerprint, cache.LayoutKeyOpts{Engine: "graphviz"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get returns hit=false with a nil error on a miss. A ttl of zero means the
// entry does not expire. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
