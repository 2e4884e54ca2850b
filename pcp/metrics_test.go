package pcp

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallnest/pcpsolver/store"
	"github.com/smallnest/pcpsolver/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStore_CountsOutcomes(t *testing.T) {
	ctx := context.Background()
	s := instrumentedStore{StateStore: memory.NewMemoryStateStore()}

	misses := testutil.ToFloat64(storeOps.WithLabelValues("get", "miss"))
	hits := testutil.ToFloat64(storeOps.WithLabelValues("get", "hit"))
	sets := testutil.ToFloat64(storeOps.WithLabelValues("set", "ok"))

	_, ok, err := s.Get(ctx, "u|a")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, s.Set(ctx, "u|a", store.Entry{BestRemainingDepth: 2}))
	_, ok, err = s.Get(ctx, "u|a")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, misses+1, testutil.ToFloat64(storeOps.WithLabelValues("get", "miss")))
	assert.Equal(t, hits+1, testutil.ToFloat64(storeOps.WithLabelValues("get", "hit")))
	assert.Equal(t, sets+1, testutil.ToFloat64(storeOps.WithLabelValues("set", "ok")))
}

func TestSolve_RecordsRunOutcome(t *testing.T) {
	found := testutil.ToFloat64(runsTotal.WithLabelValues("found"))
	exhausted := testutil.ToFloat64(runsTotal.WithLabelValues("exhausted"))
	failed := testutil.ToFloat64(runsTotal.WithLabelValues("error"))
	setErrors := testutil.ToFloat64(storeOps.WithLabelValues("set", "error"))

	_, err := quietSolver(nil).Solve(context.Background(), Problem{Tiles: classicTiles, MaxDepth: 4, MinDepth: 1})
	require.NoError(t, err)
	_, err = quietSolver(nil).Solve(context.Background(), Problem{Tiles: []Tile{{"ab", "ba"}}, MaxDepth: 2, MinDepth: 1})
	require.NoError(t, err)
	_, err = quietSolver(&faultyStore{MemoryStateStore: memory.NewMemoryStateStore(), failSet: true}).
		Solve(context.Background(), Problem{Tiles: classicTiles, MaxDepth: 4, MinDepth: 1})
	require.Error(t, err)

	assert.Equal(t, found+1, testutil.ToFloat64(runsTotal.WithLabelValues("found")))
	assert.Equal(t, exhausted+1, testutil.ToFloat64(runsTotal.WithLabelValues("exhausted")))
	assert.Equal(t, failed+1, testutil.ToFloat64(runsTotal.WithLabelValues("error")))
	assert.Equal(t, setErrors+1, testutil.ToFloat64(storeOps.WithLabelValues("set", "error")))
}
