package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type resourceKey string

type rows = [][]string

func newRowsCache() *InMemoryCacheManager[resourceKey, rows] {
	return NewInMemoryCacheManager[resourceKey, rows]("rows", DefaultExpiration, DefaultCleanupInterval)
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := newRowsCache()
	students := rows{{"S01", "Riya Agarwal", "riya@univ.edu", "B.Tech CSE"}}
	cache.Set(context.Background(), "students", students, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "students")
	require.True(t, ok)
	require.Equal(t, students, got)
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := newRowsCache()

	got, ok := cache.Get(context.Background(), "students")
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := newRowsCache()
	cache.cache.Set("students", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "students")
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_GetExpired(t *testing.T) {
	cache := newRowsCache()
	cache.Set(context.Background(), "courses", rows{{"Lab"}}, time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "courses")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_DeleteWithNoKeysDoesNothing(t *testing.T) {
	cache := newRowsCache()
	require.NoError(t, cache.Delete(context.Background()))
}

func TestInMemoryCacheManager_DeleteExistingValue(t *testing.T) {
	cache := newRowsCache()
	cache.Set(context.Background(), "students", rows{{"S01"}}, DefaultExpiration)
	cache.Set(context.Background(), "courses", rows{{"Lab"}}, DefaultExpiration)

	require.NoError(t, cache.Delete(context.Background(), "students"))

	_, ok := cache.Get(context.Background(), "students")
	require.False(t, ok)
	_, ok = cache.Get(context.Background(), "courses")
	require.True(t, ok)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := newRowsCache()
	cache.Set(context.Background(), "students", rows{{"S01"}}, DefaultExpiration)
	cache.Set(context.Background(), "courses", rows{{"Lab"}}, DefaultExpiration)

	require.NoError(t, cache.Flush(context.Background()))

	_, ok := cache.Get(context.Background(), "students")
	require.False(t, ok)
	_, ok = cache.Get(context.Background(), "courses")
	require.False(t, ok)
}
