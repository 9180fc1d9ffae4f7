package ports

import (
	"context"
	"time"
)

// Cache is a keyed response cache. Entries are only ever invalidated
// explicitly: a consumer that mutates without invalidating will observe
// stale data on the next read, so every mutation path must consult the
// declared invalidation table.
type Cache interface {
	// Get unmarshals the cached value into dst and reports whether the key
	// was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key sharing the prefix; used to drop all
	// slot entries of a tenant in one sweep.
	DeletePrefix(ctx context.Context, prefix string) error
}
