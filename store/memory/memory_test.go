package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/smallnest/pcpsolver/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStore_New(t *testing.T) {
	t.Parallel()

	ms := NewMemoryStateStore()
	require.NotNil(t, ms)

	var _ store.StateStore = ms
	assert.Equal(t, 0, ms.Len())
}

func TestMemoryStateStore_BasicOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryStateStore()
		_, ok, err := ms.Get(ctx, "u|ab")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryStateStore()
		entry := store.Entry{BestRemainingDepth: 3, BestPathLength: 2}
		require.NoError(t, ms.Set(ctx, "u|ab", entry))

		got, ok, err := ms.Get(ctx, "u|ab")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, entry, got)
	})

	t.Run("set overwrites", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryStateStore()
		require.NoError(t, ms.Set(ctx, "d|a", store.Entry{BestRemainingDepth: 1}))
		require.NoError(t, ms.Set(ctx, "d|a", store.Entry{BestRemainingDepth: 4, BestPathLength: 1}))

		got, _, err := ms.Get(ctx, "d|a")
		require.NoError(t, err)
		assert.Equal(t, store.Entry{BestRemainingDepth: 4, BestPathLength: 1}, got)
		assert.Equal(t, 1, ms.Len())
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryStateStore()
		for i := 0; i < 10; i++ {
			require.NoError(t, ms.Set(ctx, fmt.Sprintf("u|%d", i), store.Entry{}))
		}
		require.NoError(t, ms.Clear(ctx))
		assert.Equal(t, 0, ms.Len())

		_, ok, _ := ms.Get(ctx, "u|0")
		assert.False(t, ok)
	})
}

func TestMemoryStateStore_Concurrent(t *testing.T) {
	t.Parallel()

	ms := NewMemoryStateStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("u|%d", i)
			_ = ms.Set(ctx, key, store.Entry{BestRemainingDepth: i})
			_, _, _ = ms.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, ms.Len())
}
