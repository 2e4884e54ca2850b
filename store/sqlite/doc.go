// Package sqlite provides the default persistent state store, backed by a
// SQLite database file.
//
// Entries live in a single table (default "transitions") keyed by the
// frontier-state key:
//
//	CREATE TABLE transitions (
//		key TEXT PRIMARY KEY,
//		best_remaining_depth INTEGER NOT NULL,
//		best_path_length INTEGER NOT NULL
//	);
//
// Every Get, Set and Clear runs in its own transaction; Set is an upsert.
// Failures are returned as *store.StorageError.
//
// Example:
//
//	st, err := sqlite.NewSqliteStateStore(sqlite.SqliteOptions{
//		Path: "./pcp_solver.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
// Use ":memory:" as Path for a volatile database in tests.
package sqlite
