// Package badger provides a BadgerDB-backed persistent state store.
//
// BadgerDB is an embedded LSM key/value store, so no server is needed. Each
// entry is stored under "<table>/<state key>" with a JSON value; Clear deletes
// every key under the table prefix in one transaction.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/smallnest/pcpsolver/log"
	"github.com/smallnest/pcpsolver/store"
)

const backendName = "badger"

// Config holds configuration for a BadgerDB-backed store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence). Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// TableName namespaces keys. Default "transitions".
	TableName string

	// Logger receives BadgerDB's internal log output. Nil disables it.
	Logger log.Logger
}

// DefaultConfig returns a persistent configuration rooted at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:      path,
		TableName: store.DefaultTable,
	}
}

// InMemoryConfig returns configuration for tests.
func InMemoryConfig() Config {
	return Config{
		InMemory:  true,
		TableName: store.DefaultTable,
	}
}

// badgerLogger adapts log.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(format, args...)
}

// Badger's info output is startup and compaction chatter.
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(format, args...)
}

// BadgerStateStore implements store.StateStore using BadgerDB
type BadgerStateStore struct {
	db     *badger.DB
	prefix []byte
}

var _ store.StateStore = (*BadgerStateStore)(nil)

// Open opens (or creates) a BadgerDB database and returns a store over it.
// Caller must call Close when done.
func Open(cfg Config) (*BadgerStateStore, error) {
	table := cfg.TableName
	if table == "" {
		table = store.DefaultTable
	}
	if err := store.ValidateTableName(table); err != nil {
		return nil, store.NewStorageError(backendName, "open", "", err)
	}
	if !cfg.InMemory && cfg.Path == "" {
		return nil, store.NewStorageError(backendName, "open", "", errors.New("path is required for persistent database"))
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, store.NewStorageError(backendName, "open", "", fmt.Errorf("create database directory %s: %w", cfg.Path, err))
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, store.NewStorageError(backendName, "open", "", fmt.Errorf("open badger database: %w", err))
	}

	return &BadgerStateStore{
		db:     db,
		prefix: []byte(table + "/"),
	}, nil
}

// Close closes the database
func (s *BadgerStateStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStateStore) dbKey(key string) []byte {
	k := make([]byte, 0, len(s.prefix)+len(key))
	k = append(k, s.prefix...)
	return append(k, key...)
}

// Get retrieves the entry for key
func (s *BadgerStateStore) Get(_ context.Context, key string) (store.Entry, bool, error) {
	var entry store.Entry
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.dbKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			e, err := store.UnmarshalEntry(val)
			if err != nil {
				return err
			}
			entry, found = e, true
			return nil
		})
	})
	if err != nil {
		return store.Entry{}, false, store.NewStorageError(backendName, "get", key, err)
	}
	return entry, found, nil
}

// Set stores the entry for key
func (s *BadgerStateStore) Set(_ context.Context, key string, entry store.Entry) error {
	data, err := store.MarshalEntry(entry)
	if err != nil {
		return store.NewStorageError(backendName, "set", key, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.dbKey(key), data)
	})
	if err != nil {
		return store.NewStorageError(backendName, "set", key, err)
	}
	return nil
}

// Clear deletes every key under the table prefix in a single transaction.
// A table too large for one Badger transaction is cleared in write batches
// instead, which is not atomic.
func (s *BadgerStateStore) Clear(_ context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, k := range s.tableKeys(txn) {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrTxnTooBig) {
		err = s.clearInBatches()
	}
	if err != nil {
		return store.NewStorageError(backendName, "clear", "", err)
	}
	return nil
}

func (s *BadgerStateStore) clearInBatches() error {
	var keys [][]byte
	if err := s.db.View(func(txn *badger.Txn) error {
		keys = s.tableKeys(txn)
		return nil
	}); err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// tableKeys copies every key under the table prefix.
func (s *BadgerStateStore) tableKeys(txn *badger.Txn) [][]byte {
	var keys [][]byte
	it := txn.NewIterator(s.keyIteratorOptions())
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

func (s *BadgerStateStore) keyIteratorOptions() badger.IteratorOptions {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = s.prefix
	return opts
}

// Count returns the number of entries under the table prefix
func (s *BadgerStateStore) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(s.keyIteratorOptions())
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, store.NewStorageError(backendName, "count", "", err)
	}
	return n, nil
}
