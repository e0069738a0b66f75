package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/registrar/internal/mocks"
)

var errReadFailed = errors.New("failed to read rows")

func rowLoader(calls *int) Loader[resourceKey, rows] {
	return func(_ context.Context, key resourceKey) (rows, error) {
		*calls++
		return rows{{string(key), "S01"}}, nil
	}
}

func failingLoader(context.Context, resourceKey) (rows, error) {
	return nil, errReadFailed
}

func TestReadThroughCache_Disabled(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[resourceKey, rows](t)
	calls := 0

	cache := NewReadThroughCache[resourceKey, rows](managerMock, rowLoader(&calls), 0)

	for range 2 {
		got, err := cache.Get(context.Background(), "students")
		require.NoError(t, err)
		require.Equal(t, rows{{"students", "S01"}}, got)
	}
	require.Equal(t, 2, calls)
	require.NoError(t, cache.Invalidate(context.Background(), "students"))
	require.NoError(t, cache.InvalidateAll(context.Background()))
	require.Equal(t, Stats{Misses: 2}, cache.Stats())
}

func TestReadThroughCache_Hit(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[resourceKey, rows](t)
	managerMock.EXPECT().Get(mock.Anything, resourceKey("students")).Return(rows{{"cached"}}, true)
	calls := 0

	cache := NewReadThroughCache[resourceKey, rows](managerMock, rowLoader(&calls), time.Minute)

	got, err := cache.Get(context.Background(), "students")
	require.NoError(t, err)
	require.Equal(t, rows{{"cached"}}, got)
	require.Zero(t, calls)
	require.Equal(t, Stats{Hits: 1}, cache.Stats())
}

func TestReadThroughCache_MissStores(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[resourceKey, rows](t)
	managerMock.EXPECT().Get(mock.Anything, resourceKey("courses")).Return(nil, false)
	managerMock.EXPECT().Set(mock.Anything, resourceKey("courses"), rows{{"courses", "S01"}}, time.Minute).Return()
	calls := 0

	cache := NewReadThroughCache[resourceKey, rows](managerMock, rowLoader(&calls), time.Minute)

	got, err := cache.Get(context.Background(), "courses")
	require.NoError(t, err)
	require.Equal(t, rows{{"courses", "S01"}}, got)
	require.Equal(t, 1, calls)
	require.Equal(t, Stats{Misses: 1}, cache.Stats())
}

func TestReadThroughCache_LoaderErrorNotStored(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[resourceKey, rows](t)
	managerMock.EXPECT().Get(mock.Anything, resourceKey("courses")).Return(nil, false)

	cache := NewReadThroughCache[resourceKey, rows](managerMock, failingLoader, time.Minute)

	_, err := cache.Get(context.Background(), "courses")
	require.ErrorIs(t, err, errReadFailed)
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[resourceKey, rows](t)
	managerMock.EXPECT().Delete(mock.Anything, resourceKey("students")).Return(nil)
	managerMock.EXPECT().Flush(mock.Anything).Return(nil)
	calls := 0

	cache := NewReadThroughCache[resourceKey, rows](managerMock, rowLoader(&calls), time.Minute)

	require.NoError(t, cache.Invalidate(context.Background(), "students"))
	require.NoError(t, cache.InvalidateAll(context.Background()))
}

func TestReadThroughCache_LoadRacingInvalidateIsNotStored(t *testing.T) {
	var cache *ReadThroughCache[resourceKey, rows]
	loads := 0
	load := func(ctx context.Context, key resourceKey) (rows, error) {
		loads++
		if loads == 1 {
			// A write lands while the first read is in flight.
			require.NoError(t, cache.Invalidate(ctx, key))
			return rows{{"stale"}}, nil
		}
		return rows{{"fresh"}}, nil
	}
	cache = NewReadThroughCache[resourceKey, rows](newRowsCache(), load, time.Minute)
	ctx := context.Background()

	got, err := cache.Get(ctx, "enrollments")
	require.NoError(t, err)
	require.Equal(t, rows{{"stale"}}, got)

	got, err = cache.Get(ctx, "enrollments")
	require.NoError(t, err)
	require.Equal(t, rows{{"fresh"}}, got, "stale load was not cached")
	require.Equal(t, 2, loads)
}

func TestReadThroughCache_WithInMemoryManager(t *testing.T) {
	calls := 0
	cache := NewReadThroughCache[resourceKey, rows](newRowsCache(), rowLoader(&calls), time.Minute)
	ctx := context.Background()

	for range 3 {
		_, err := cache.Get(ctx, "students")
		require.NoError(t, err)
	}
	require.Equal(t, 1, calls)
	require.Equal(t, Stats{Hits: 2, Misses: 1}, cache.Stats())

	require.NoError(t, cache.Invalidate(ctx, "students"))
	_, err := cache.Get(ctx, "students")
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
