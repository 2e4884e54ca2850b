package pcp

import (
	"context"
	"fmt"
	"io"

	"github.com/smallnest/pcpsolver/log"
	"github.com/smallnest/pcpsolver/store"
	badgerstore "github.com/smallnest/pcpsolver/store/badger"
	"github.com/smallnest/pcpsolver/store/lru"
	"github.com/smallnest/pcpsolver/store/memory"
	pgstore "github.com/smallnest/pcpsolver/store/postgres"
	redisstore "github.com/smallnest/pcpsolver/store/redis"
	sqlitestore "github.com/smallnest/pcpsolver/store/sqlite"
)

// StoreHandle is an opened state store together with what was actually
// selected.
type StoreHandle struct {
	Store store.StateStore

	// Mode is the effective mode, ModeMemory after a fallback
	Mode store.Mode
	// Backend is the persistent backend in use, empty in memory mode
	Backend store.Backend
	// Fallback is the reason persistent storage was not used, if it was
	// requested and could not be opened
	Fallback error

	closer io.Closer
}

// Close releases backend resources.
func (h *StoreHandle) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

// Describe returns a one-line description for status output.
func (h *StoreHandle) Describe() string {
	if h.Mode == store.ModeMemory {
		return "in-memory storage for visited states"
	}
	return fmt.Sprintf("%s (disk-backed) storage for visited states", h.Backend)
}

// OpenStore builds the store selected by opts. Persistent backends are
// wrapped in an LRU cache of opts.CacheSize entries. When a persistent
// backend cannot be opened the handle falls back to memory, records the
// cause in Fallback and logs a warning; only invalid options return an error.
func OpenStore(ctx context.Context, opts store.Options, logger log.Logger) (*StoreHandle, error) {
	logger = log.OrDefault(logger)

	mode, err := store.ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	if mode == store.ModeMemory {
		return memoryHandle(nil), nil
	}

	backend, err := store.ParseBackend(string(opts.Backend))
	if err != nil {
		return nil, err
	}
	if opts.Table != "" {
		if err := store.ValidateTableName(opts.Table); err != nil {
			return nil, fmt.Errorf("storage table: %w", err)
		}
	}

	st, closer, err := openBackend(ctx, backend, opts, logger)
	if err != nil {
		logger.Warn("%s storage not available; falling back to in-memory: %v", backend, err)
		return memoryHandle(err), nil
	}

	cacheSize := opts.CacheSize
	if cacheSize == 0 {
		cacheSize = store.DefaultCacheSize
	}
	logger.Info("caching %d most-recent states in memory in front of %s", cacheSize, backend)

	return &StoreHandle{
		Store:   lru.New(st, cacheSize),
		Mode:    store.ModePersistent,
		Backend: backend,
		closer:  closer,
	}, nil
}

func memoryHandle(fallback error) *StoreHandle {
	return &StoreHandle{
		Store:    memory.NewMemoryStateStore(),
		Mode:     store.ModeMemory,
		Fallback: fallback,
	}
}

func openBackend(ctx context.Context, backend store.Backend, opts store.Options, logger log.Logger) (store.StateStore, io.Closer, error) {
	table := opts.Table
	if table == "" {
		table = store.DefaultTable
	}

	switch backend {
	case store.BackendSqlite:
		path := opts.Sqlite.Path
		if path == "" {
			path = store.DefaultDatabase + ".db"
		}
		s, err := sqlitestore.NewSqliteStateStore(sqlitestore.SqliteOptions{Path: path, TableName: table})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case store.BackendBadger:
		s, err := badgerstore.Open(badgerstore.Config{
			Path:       opts.Badger.Path,
			InMemory:   opts.Badger.InMemory,
			SyncWrites: opts.Badger.SyncWrites,
			TableName:  table,
			Logger:     logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case store.BackendRedis:
		s, err := redisstore.NewRedisStateStore(redisstore.RedisOptions{
			Addr:      opts.Redis.Addr,
			Password:  opts.Redis.Password,
			DB:        opts.Redis.DB,
			Prefix:    opts.Redis.Prefix,
			TableName: table,
			TTL:       opts.Redis.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s, nil

	case store.BackendPostgres:
		s, err := pgstore.NewPostgresStateStore(ctx, pgstore.PostgresOptions{
			ConnString: opts.Postgres.ConnString,
			TableName:  table,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
