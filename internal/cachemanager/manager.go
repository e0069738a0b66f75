// Package cachemanager caches loaded values in memory with a TTL.
//
// The row store decorator keeps one entry per resource so repeated reads of
// students, courses and enrollments skip the disk until a write or an
// external edit invalidates them.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values by key, each with its own expiry.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
