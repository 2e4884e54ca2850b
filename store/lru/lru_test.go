package lru

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/smallnest/pcpsolver/store"
	"github.com/smallnest/pcpsolver/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records delegate traffic and can be told to fail.
type countingStore struct {
	*memory.MemoryStateStore
	gets, sets, clears int
	failSet            error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStateStore: memory.NewMemoryStateStore()}
}

func (s *countingStore) Get(ctx context.Context, key string) (store.Entry, bool, error) {
	s.gets++
	return s.MemoryStateStore.Get(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key string, e store.Entry) error {
	s.sets++
	if s.failSet != nil {
		return s.failSet
	}
	return s.MemoryStateStore.Set(ctx, key, e)
}

func (s *countingStore) Clear(ctx context.Context) error {
	s.clears++
	return s.MemoryStateStore.Clear(ctx)
}

func key(i int) string { return fmt.Sprintf("u|%d", i) }

func TestCacheStore_Eviction(t *testing.T) {
	ctx := context.Background()
	delegate := newCountingStore()
	c := New(delegate, 3)

	for i := 0; i < 4; i++ {
		require.NoError(t, c.Set(ctx, key(i), store.Entry{BestRemainingDepth: i}))
	}

	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Contains(key(0)), "least recently used key should be evicted")
	for i := 1; i < 4; i++ {
		assert.True(t, c.Contains(key(i)))
	}
	assert.Equal(t, int64(1), c.Stats().Evictions)

	// evicted key still readable through the delegate
	got, ok, err := c.Get(ctx, key(0))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, store.Entry{BestRemainingDepth: 0}, got)
	assert.True(t, c.Contains(key(0)))
	assert.Equal(t, 3, c.Len())
}

func TestCacheStore_GetPromotes(t *testing.T) {
	ctx := context.Background()
	c := New(newCountingStore(), 2)

	require.NoError(t, c.Set(ctx, "a", store.Entry{}))
	require.NoError(t, c.Set(ctx, "b", store.Entry{}))

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "c", store.Entry{}))

	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
}

func TestCacheStore_HitDoesNotReadDelegate(t *testing.T) {
	ctx := context.Background()
	delegate := newCountingStore()
	c := New(delegate, 10)

	require.NoError(t, c.Set(ctx, "d|x", store.Entry{BestRemainingDepth: 2}))
	_, _, err := c.Get(ctx, "d|x")
	require.NoError(t, err)

	assert.Equal(t, 0, delegate.gets)
	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestCacheStore_MissNotCached(t *testing.T) {
	ctx := context.Background()
	delegate := newCountingStore()
	c := New(delegate, 10)

	_, ok, err := c.Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, c.Contains("nope"))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestCacheStore_WriteThrough(t *testing.T) {
	ctx := context.Background()
	delegate := newCountingStore()
	c := New(delegate, 1)

	require.NoError(t, c.Set(ctx, "a", store.Entry{BestRemainingDepth: 1}))
	require.NoError(t, c.Set(ctx, "b", store.Entry{BestRemainingDepth: 2}))
	require.NoError(t, c.Set(ctx, "a", store.Entry{BestRemainingDepth: 3}))

	assert.Equal(t, 3, delegate.sets)
	got, ok, _ := delegate.MemoryStateStore.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, 3, got.BestRemainingDepth)
	got, ok, _ = delegate.MemoryStateStore.Get(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, 2, got.BestRemainingDepth)
}

func TestCacheStore_FailedWriteDropsCachedKey(t *testing.T) {
	ctx := context.Background()
	delegate := newCountingStore()
	c := New(delegate, 4)

	boom := store.NewStorageError("test", "set", "a", errors.New("disk full"))
	delegate.failSet = boom

	err := c.Set(ctx, "a", store.Entry{BestRemainingDepth: 9})
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.False(t, c.Contains("a"))
}

func TestCacheStore_Clear(t *testing.T) {
	ctx := context.Background()
	delegate := newCountingStore()
	c := New(delegate, 4)

	require.NoError(t, c.Set(ctx, "a", store.Entry{}))
	require.NoError(t, c.Clear(ctx))

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, delegate.clears)
	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheStore_MinimumCapacity(t *testing.T) {
	ctx := context.Background()
	c := New(newCountingStore(), 0)

	require.NoError(t, c.Set(ctx, "a", store.Entry{}))
	require.NoError(t, c.Set(ctx, "b", store.Entry{}))
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Contains("b"))
}

func TestStats_HitRate(t *testing.T) {
	assert.Equal(t, 0.0, Stats{}.HitRate())
	assert.Equal(t, 75.0, Stats{Hits: 3, Misses: 1}.HitRate())
}
