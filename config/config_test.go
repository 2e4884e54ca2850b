package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smallnest/pcpsolver/log"
	"github.com/smallnest/pcpsolver/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultMaxDepth, cfg.Search.MaxDepth)
	assert.Equal(t, 0, cfg.Search.MinDepth)
	assert.Equal(t, 5000, cfg.Search.CheckpointInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.Search.ReportInterval)

	opts := cfg.StoreOptions()
	assert.Equal(t, store.ModeMemory, opts.Mode)
	assert.Equal(t, store.BackendSqlite, opts.Backend)
	assert.Equal(t, 1000, opts.CacheSize)
	assert.Equal(t, "transitions", opts.Table)
	assert.Equal(t, "pcp_solver.db", opts.Sqlite.Path)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
search:
  max_depth: 12
  min_depth: 2
  report_interval: 250ms
storage:
  mode: persistent
  backend: redis
  cache_size: 64
  redis:
    addr: redis.internal:6380
    db: 3
    ttl: 1h
log:
  level: debug
  backend: golog
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Search.MaxDepth)
	assert.Equal(t, 2, cfg.Search.MinDepth)
	assert.Equal(t, 5000, cfg.Search.CheckpointInterval, "unset keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Search.ReportInterval)

	opts := cfg.StoreOptions()
	assert.Equal(t, store.ModePersistent, opts.Mode)
	assert.Equal(t, store.BackendRedis, opts.Backend)
	assert.Equal(t, 64, opts.CacheSize)
	assert.Equal(t, "redis.internal:6380", opts.Redis.Addr)
	assert.Equal(t, 3, opts.Redis.DB)
	assert.Equal(t, "pcp:", opts.Redis.Prefix)
	assert.Equal(t, time.Hour, opts.Redis.TTL)

	logger, err := cfg.Logger()
	require.NoError(t, err)
	gl, ok := logger.(*log.GologLogger)
	require.True(t, ok)
	assert.Equal(t, log.LogLevelDebug, gl.GetLevel())

	assert.Len(t, cfg.SolverOptions(), 2)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "search: [1, 2"))
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = Load(writeConfig(t, "search:\n  max_depth: 0\n"))
	assert.ErrorContains(t, err, "search.max_depth")
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Search.MaxDepth = 0
	cfg.Search.MinDepth = -1
	cfg.Search.CheckpointInterval = 0
	cfg.Storage.Mode = "tape"
	cfg.Storage.Backend = "floppy"
	cfg.Storage.CacheSize = -5
	cfg.Storage.Table = "1bad"
	cfg.Log.Level = "loud"
	cfg.Log.Backend = "syslog"

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{
		"search.max_depth", "search.min_depth", "search.checkpoint_interval",
		"storage.mode", "storage.backend", "storage.cache_size", "storage.table",
		"log.level", "log.backend",
	} {
		assert.ErrorContains(t, err, field)
	}
}

func TestLogger_Std(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"

	logger, err := cfg.Logger()
	require.NoError(t, err)
	dl, ok := logger.(*log.DefaultLogger)
	require.True(t, ok)
	assert.False(t, dl.LevelEnabled(log.LogLevelInfo))
	assert.True(t, dl.LevelEnabled(log.LogLevelWarn))

	cfg.Log.Backend = "syslog"
	_, err = cfg.Logger()
	assert.Error(t, err)
}
