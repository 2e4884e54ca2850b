// Package store defines the key/value contract behind the solver's
// transposition table, together with the shared entry encoding, error type
// and backend selection options.
//
// # Store Interface
//
//	type StateStore interface {
//	    Get(ctx context.Context, key string) (Entry, bool, error)
//	    Set(ctx context.Context, key string, entry Entry) error
//	    Clear(ctx context.Context) error
//	}
//
// Keys are normalized frontier states ("u|ab", "d|b", ...). Values are Entry
// records holding the best remaining depth and path length seen for that
// state in the current depth-bound iteration. The table is cleared before
// every iteration, so nothing in it outlives a single bound.
//
// # Available Implementations
//
//   - store/memory: a map, the default for short searches
//   - store/sqlite: file-backed SQLite, the default persistent backend
//   - store/badger: embedded BadgerDB
//   - store/redis: a single Redis hash per table
//   - store/postgres: a PostgreSQL table
//   - store/lru: a bounded write-through cache decorating any of the above
//
// Persistent backends run every call in its own transaction and report
// failures as *StorageError, which matches ErrUnavailable:
//
//	if errors.Is(err, store.ErrUnavailable) {
//	    // the backend could not serve the request
//	}
//
// # Choosing a Store
//
// The in-memory store is fastest but its size grows with the number of
// distinct frontier states. For deep searches select ModePersistent: entries
// go to disk (or a server) and only DefaultCacheSize of them stay resident
// in the LRU cache. pcp.OpenStore builds the right combination from Options
// and falls back to memory when the persistent backend cannot be opened.
package store
