package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/smallnest/pcpsolver/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SqliteStateStore {
	t.Helper()
	s, err := NewSqliteStateStore(SqliteOptions{
		Path: filepath.Join(t.TempDir(), "pcp.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSqliteStateStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "u|ab")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "u|ab", store.Entry{BestRemainingDepth: 3, BestPathLength: 1}))

	got, ok, err := s.Get(ctx, "u|ab")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, store.Entry{BestRemainingDepth: 3, BestPathLength: 1}, got)

	// upsert
	require.NoError(t, s.Set(ctx, "u|ab", store.Entry{BestRemainingDepth: 5, BestPathLength: 0}))
	got, _, err = s.Get(ctx, "u|ab")
	require.NoError(t, err)
	assert.Equal(t, store.Entry{BestRemainingDepth: 5, BestPathLength: 0}, got)

	require.NoError(t, s.Set(ctx, "d|b", store.Entry{BestRemainingDepth: 1}))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Clear(ctx))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSqliteStateStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcp.db")
	ctx := context.Background()

	s, err := NewSqliteStateStore(SqliteOptions{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "d|xy", store.Entry{BestRemainingDepth: 2, BestPathLength: 4}))
	require.NoError(t, s.Close())

	s, err = NewSqliteStateStore(SqliteOptions{Path: path})
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get(ctx, "d|xy")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, store.Entry{BestRemainingDepth: 2, BestPathLength: 4}, got)
}

func TestSqliteStateStore_CustomTable(t *testing.T) {
	ctx := context.Background()
	s, err := NewSqliteStateStore(SqliteOptions{Path: ":memory:", TableName: "run_42"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "u|a", store.Entry{BestRemainingDepth: 1}))
	_, ok, err := s.Get(ctx, "u|a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSqliteStateStore_InvalidTable(t *testing.T) {
	_, err := NewSqliteStateStore(SqliteOptions{Path: ":memory:", TableName: "x; DROP"})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestSqliteStateStore_ClosedDatabase(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	ctx := context.Background()
	_, _, err := s.Get(ctx, "u|a")
	assert.ErrorIs(t, err, store.ErrUnavailable)

	err = s.Set(ctx, "u|a", store.Entry{})
	assert.ErrorIs(t, err, store.ErrUnavailable)

	var se *store.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "sqlite", se.Backend)
	assert.Equal(t, "set", se.Op)
}
