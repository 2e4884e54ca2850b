package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryJSONShape(t *testing.T) {
	data, err := MarshalEntry(Entry{BestRemainingDepth: 4, BestPathLength: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"bestRemainingDepth":4,"bestPathLength":2}`, string(data))

	entry, err := UnmarshalEntry(data)
	require.NoError(t, err)
	assert.Equal(t, Entry{BestRemainingDepth: 4, BestPathLength: 2}, entry)

	_, err = UnmarshalEntry([]byte("not json"))
	assert.Error(t, err)
}

func TestValidateTableName(t *testing.T) {
	for _, ok := range []string{"transitions", "_t", "t2", "Run_01"} {
		assert.NoError(t, ValidateTableName(ok), ok)
	}
	for _, bad := range []string{"", "2t", "a-b", "t; DROP TABLE x", "a b"} {
		assert.Error(t, ValidateTableName(bad), bad)
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageError("redis", "get", "u|ab", cause)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `redis: get "u|ab": connection refused`, err.Error())

	wrapped := fmt.Errorf("bound 3: %w", err)
	assert.ErrorIs(t, wrapped, ErrUnavailable)

	var se *StorageError
	require.ErrorAs(t, wrapped, &se)
	assert.Equal(t, "get", se.Op)

	assert.Equal(t, "sqlite: clear: boom", NewStorageError("sqlite", "clear", "", errors.New("boom")).Error())
}

func TestParseModeAndBackend(t *testing.T) {
	m, err := ParseMode("disk")
	require.NoError(t, err)
	assert.Equal(t, ModePersistent, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeMemory, m)

	_, err = ParseMode("cloud")
	assert.Error(t, err)

	b, err := ParseBackend("Badger")
	require.NoError(t, err)
	assert.Equal(t, BackendBadger, b)

	b, err = ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendSqlite, b)

	_, err = ParseBackend("mongo")
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, ModeMemory, opts.Mode)
	assert.Equal(t, BackendSqlite, opts.Backend)
	assert.Equal(t, DefaultCacheSize, opts.CacheSize)
	assert.Equal(t, DefaultTable, opts.Table)
}
