package cachemanager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loader fetches the authoritative value for key on a cache miss.
type Loader[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Stats counts how reads were served.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// ReadThroughCache serves values from a CacheManager and falls back to a
// Loader on a miss, storing what it loads for ttl.
//
// Each invalidation bumps a generation counter. A load that started before
// an invalidation returns its value but does not store it, so rows read
// just before a write never outlive that write in the cache.
type ReadThroughCache[K comparable, V any] struct {
	cache    CacheManager[K, V]
	load     Loader[K, V]
	ttl      time.Duration
	disabled bool

	mu         sync.Mutex
	generation uint64

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewReadThroughCache wraps cache with load. A ttl of zero or less disables
// caching and every Get calls load.
func NewReadThroughCache[K comparable, V any](cache CacheManager[K, V], load Loader[K, V], ttl time.Duration) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{
		cache:    cache,
		load:     load,
		ttl:      ttl,
		disabled: ttl <= 0,
	}
}

// Get returns the cached value for key, loading and storing it on a miss.
// Loader errors are returned as-is and nothing is stored.
func (r *ReadThroughCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	if r.disabled {
		r.misses.Add(1)
		return r.load(ctx, key)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		r.hits.Add(1)
		return value, nil
	}
	r.misses.Add(1)

	gen := r.currentGeneration()
	value, err := r.load(ctx, key)
	if err != nil {
		return value, err
	}

	r.mu.Lock()
	if gen == r.generation {
		r.cache.Set(ctx, key, value, r.ttl)
	}
	r.mu.Unlock()
	return value, nil
}

// Invalidate drops keys so the next Get loads them again.
func (r *ReadThroughCache[K, V]) Invalidate(ctx context.Context, keys ...K) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	if r.disabled {
		return nil
	}
	return r.cache.Delete(ctx, keys...)
}

// InvalidateAll drops every cached value.
func (r *ReadThroughCache[K, V]) InvalidateAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	if r.disabled {
		return nil
	}
	return r.cache.Flush(ctx)
}

// Stats returns the hit and miss counts so far.
func (r *ReadThroughCache[K, V]) Stats() Stats {
	return Stats{Hits: r.hits.Load(), Misses: r.misses.Load()}
}

func (r *ReadThroughCache[K, V]) currentGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}
