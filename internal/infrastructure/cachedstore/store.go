// Package cachedstore decorates a row store with a read-through TTL cache.
package cachedstore

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/zjrosen/registrar/internal/cachemanager"
	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/registrar/domain"
)

// Store caches Read results per resource and invalidates on every write.
// A zero ttl disables caching.
type Store struct {
	inner domain.RowStore
	cache *cachemanager.ReadThroughCache[domain.Resource, [][]string]

	// lastWrite is unix nanos, read from the watcher goroutine.
	lastWrite atomic.Int64
}

var _ domain.RowStore = (*Store)(nil)

// New wraps inner with a cache whose entries live for ttl.
func New(inner domain.RowStore, ttl time.Duration) *Store {
	s := &Store{inner: inner}
	manager := cachemanager.NewInMemoryCacheManager[domain.Resource, [][]string](
		"rows", ttl, cachemanager.DefaultCleanupInterval)
	s.cache = cachemanager.NewReadThroughCache[domain.Resource, [][]string](manager, s.load, ttl)
	return s
}

func (s *Store) load(_ context.Context, res domain.Resource) ([][]string, error) {
	return s.inner.Read(res)
}

// Read returns a private copy of the resource's rows.
func (s *Store) Read(res domain.Resource) ([][]string, error) {
	rows, err := s.cache.Get(context.Background(), res)
	if err != nil {
		return nil, err
	}
	return clone(rows), nil
}

// WriteAll delegates and drops the cached resource.
func (s *Store) WriteAll(res domain.Resource, rows [][]string) error {
	s.markWrite()
	defer s.finishWrite(res)
	return s.inner.WriteAll(res, rows)
}

// Append delegates and drops the cached resource.
func (s *Store) Append(res domain.Resource, row []string) error {
	s.markWrite()
	defer s.finishWrite(res)
	return s.inner.Append(res, row)
}

// LastWrite reports when a write through this store last started or
// finished. It is zero before the first write.
func (s *Store) LastWrite() time.Time {
	ns := s.lastWrite.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (s *Store) markWrite() {
	s.lastWrite.Store(time.Now().UnixNano())
}

func (s *Store) finishWrite(res domain.Resource) {
	s.markWrite()
	s.invalidate(res)
}

// Stats reports cache hits and misses.
func (s *Store) Stats() cachemanager.Stats {
	return s.cache.Stats()
}

// Invalidate drops every cached resource, for use after external edits.
func (s *Store) Invalidate() {
	if err := s.cache.InvalidateAll(context.Background()); err != nil {
		log.ErrorErr(log.CatCache, "Flush failed", err)
	}
}

func (s *Store) invalidate(res domain.Resource) {
	if err := s.cache.Invalidate(context.Background(), res); err != nil {
		log.ErrorErr(log.CatCache, "Invalidate failed", err, "resource", res)
	}
}

func clone(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = slices.Clone(row)
	}
	return out
}
