package store

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects where the transposition table lives.
type Mode string

const (
	// ModeMemory keeps every entry in process memory
	ModeMemory Mode = "memory"
	// ModePersistent keeps entries in a durable backend behind an LRU cache
	ModePersistent Mode = "persistent"
)

// ParseMode accepts "memory" and "persistent". "disk" is an alias of
// "persistent".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "memory", "mem":
		return ModeMemory, nil
	case "persistent", "disk":
		return ModePersistent, nil
	default:
		return "", fmt.Errorf("unknown storage mode %q", s)
	}
}

// Backend names a persistent store implementation.
type Backend string

const (
	BackendSqlite   Backend = "sqlite"
	BackendBadger   Backend = "badger"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendSqlite, nil
	case BackendSqlite, BackendBadger, BackendRedis, BackendPostgres:
		return b, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q", s)
	}
}

// DefaultCacheSize is the number of entries the LRU cache keeps resident in
// front of a persistent backend.
const DefaultCacheSize = 1000

// Options selects and configures a state store.
type Options struct {
	Mode      Mode
	Backend   Backend
	CacheSize int
	Table     string

	Sqlite   SqliteOptions
	Badger   BadgerOptions
	Redis    RedisOptions
	Postgres PostgresOptions
}

// SqliteOptions configures the SQLite backend
type SqliteOptions struct {
	Path string // Default "pcp_solver.db"
}

// BadgerOptions configures the BadgerDB backend
type BadgerOptions struct {
	Path       string
	InMemory   bool
	SyncWrites bool
}

// RedisOptions configures the Redis backend
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "pcp:"
	TTL      time.Duration // Expiration for the table hash, default 0 (none)
}

// PostgresOptions configures the PostgreSQL backend
type PostgresOptions struct {
	ConnString string
}

// DefaultOptions returns in-memory storage with the default cache size and
// SQLite as the persistent backend.
func DefaultOptions() Options {
	return Options{
		Mode:      ModeMemory,
		Backend:   BackendSqlite,
		CacheSize: DefaultCacheSize,
		Table:     DefaultTable,
		Sqlite:    SqliteOptions{Path: DefaultDatabase + ".db"},
	}
}
