// Package config loads solver settings from YAML.
//
// Every field has a default, so an empty or partial file is valid. Command
// line flags are applied on top of the loaded values by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kataras/golog"
	"github.com/smallnest/pcpsolver/log"
	"github.com/smallnest/pcpsolver/pcp"
	"github.com/smallnest/pcpsolver/store"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth is the deepest bound searched when none is configured
const DefaultMaxDepth = 20

// Log backends
const (
	LogBackendStd   = "std"
	LogBackendGolog = "golog"
)

// Config is the root of the YAML document
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// SearchConfig holds the depth bounds and progress cadence
type SearchConfig struct {
	MaxDepth           int           `yaml:"max_depth"`
	MinDepth           int           `yaml:"min_depth"`
	CheckpointInterval int           `yaml:"checkpoint_interval"`
	ReportInterval     time.Duration `yaml:"report_interval"`
}

// StorageConfig selects the transposition table store
type StorageConfig struct {
	Mode      string `yaml:"mode"`
	Backend   string `yaml:"backend"`
	CacheSize int    `yaml:"cache_size"`
	Table     string `yaml:"table"`

	Sqlite   SqliteConfig   `yaml:"sqlite"`
	Badger   BadgerConfig   `yaml:"badger"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SqliteConfig struct {
	Path string `yaml:"path"`
}

type BadgerConfig struct {
	Path       string `yaml:"path"`
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

type PostgresConfig struct {
	ConnString string `yaml:"conn_string"`
}

// LogConfig selects the log level and implementation
type LogConfig struct {
	Level   string `yaml:"level"`
	Backend string `yaml:"backend"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Search: SearchConfig{
			MaxDepth:           DefaultMaxDepth,
			CheckpointInterval: pcp.DefaultCheckpointInterval,
			ReportInterval:     pcp.DefaultReportInterval,
		},
		Storage: StorageConfig{
			Mode:      string(store.ModeMemory),
			Backend:   string(store.BackendSqlite),
			CacheSize: store.DefaultCacheSize,
			Table:     store.DefaultTable,
			Sqlite:    SqliteConfig{Path: store.DefaultDatabase + ".db"},
			Badger:    BadgerConfig{Path: store.DefaultDatabase + ".badger"},
			Redis:     RedisConfig{Addr: "localhost:6379", Prefix: "pcp:"},
		},
		Log: LogConfig{
			Level:   "info",
			Backend: LogBackendStd,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.Search.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("search.max_depth must be at least 1, got %d", c.Search.MaxDepth))
	}
	if c.Search.MinDepth < 0 {
		errs = append(errs, fmt.Errorf("search.min_depth must not be negative, got %d", c.Search.MinDepth))
	}
	if c.Search.CheckpointInterval < 1 {
		errs = append(errs, fmt.Errorf("search.checkpoint_interval must be at least 1, got %d", c.Search.CheckpointInterval))
	}
	if c.Search.ReportInterval < 0 {
		errs = append(errs, fmt.Errorf("search.report_interval must not be negative, got %s", c.Search.ReportInterval))
	}

	if _, err := store.ParseMode(c.Storage.Mode); err != nil {
		errs = append(errs, fmt.Errorf("storage.mode: %w", err))
	}
	if _, err := store.ParseBackend(c.Storage.Backend); err != nil {
		errs = append(errs, fmt.Errorf("storage.backend: %w", err))
	}
	if c.Storage.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("storage.cache_size must not be negative, got %d", c.Storage.CacheSize))
	}
	if c.Storage.Table != "" {
		if err := store.ValidateTableName(c.Storage.Table); err != nil {
			errs = append(errs, fmt.Errorf("storage.table: %w", err))
		}
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Backend {
	case "", LogBackendStd, LogBackendGolog:
	default:
		errs = append(errs, fmt.Errorf("log.backend: unknown backend %q", c.Log.Backend))
	}

	return errors.Join(errs...)
}

// StoreOptions converts the storage section for pcp.OpenStore.
func (c Config) StoreOptions() store.Options {
	s := c.Storage
	return store.Options{
		Mode:      store.Mode(s.Mode),
		Backend:   store.Backend(s.Backend),
		CacheSize: s.CacheSize,
		Table:     s.Table,
		Sqlite:    store.SqliteOptions{Path: s.Sqlite.Path},
		Badger: store.BadgerOptions{
			Path:       s.Badger.Path,
			InMemory:   s.Badger.InMemory,
			SyncWrites: s.Badger.SyncWrites,
		},
		Redis: store.RedisOptions{
			Addr:     s.Redis.Addr,
			Password: s.Redis.Password,
			DB:       s.Redis.DB,
			Prefix:   s.Redis.Prefix,
			TTL:      s.Redis.TTL,
		},
		Postgres: store.PostgresOptions{ConnString: s.Postgres.ConnString},
	}
}

// SolverOptions converts the search cadence settings.
func (c Config) SolverOptions() []pcp.Option {
	return []pcp.Option{
		pcp.WithCheckpointInterval(c.Search.CheckpointInterval),
		pcp.WithReportInterval(c.Search.ReportInterval),
	}
}

// Logger builds the configured logger.
func (c Config) Logger() (log.Logger, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	switch c.Log.Backend {
	case "", LogBackendStd:
		return log.NewDefaultLogger(level), nil
	case LogBackendGolog:
		l := log.NewGologLogger(golog.New())
		l.SetLevel(level)
		return l, nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", c.Log.Backend)
	}
}
