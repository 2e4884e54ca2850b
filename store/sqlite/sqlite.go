package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/smallnest/pcpsolver/store"
)

const backendName = "sqlite"

// SqliteStateStore implements store.StateStore using SQLite
type SqliteStateStore struct {
	db        *sql.DB
	tableName string
}

var _ store.StateStore = (*SqliteStateStore)(nil)

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "transitions"
}

// NewSqliteStateStore opens the database and creates the table if needed
func NewSqliteStateStore(opts SqliteOptions) (*SqliteStateStore, error) {
	tableName := opts.TableName
	if tableName == "" {
		tableName = store.DefaultTable
	}
	if err := store.ValidateTableName(tableName); err != nil {
		return nil, store.NewStorageError(backendName, "open", "", err)
	}

	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, store.NewStorageError(backendName, "open", "", fmt.Errorf("unable to open database: %w", err))
	}
	// A single connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SqliteStateStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteStateStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			best_remaining_depth INTEGER NOT NULL,
			best_path_length INTEGER NOT NULL
		);
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return store.NewStorageError(backendName, "open", "", fmt.Errorf("failed to create schema: %w", err))
	}
	return nil
}

// Close closes the database connection
func (s *SqliteStateStore) Close() error {
	return s.db.Close()
}

// Get retrieves the entry for key
func (s *SqliteStateStore) Get(ctx context.Context, key string) (store.Entry, bool, error) {
	query := fmt.Sprintf(`
		SELECT best_remaining_depth, best_path_length
		FROM %s
		WHERE key = ?
	`, s.tableName)

	var entry store.Entry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, key).Scan(
			&entry.BestRemainingDepth,
			&entry.BestPathLength,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Entry{}, false, nil
		}
		return store.Entry{}, false, store.NewStorageError(backendName, "get", key, err)
	}

	return entry, true, nil
}

// Set upserts the entry for key
func (s *SqliteStateStore) Set(ctx context.Context, key string, entry store.Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, best_remaining_depth, best_path_length)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			best_remaining_depth = excluded.best_remaining_depth,
			best_path_length = excluded.best_path_length
	`, s.tableName)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, key, entry.BestRemainingDepth, entry.BestPathLength)
		return err
	})
	if err != nil {
		return store.NewStorageError(backendName, "set", key, err)
	}
	return nil
}

// Clear removes every entry in the table
func (s *SqliteStateStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.tableName)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query)
		return err
	})
	if err != nil {
		return store.NewStorageError(backendName, "clear", "", err)
	}
	return nil
}

// Count returns the number of stored entries
func (s *SqliteStateStore) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, store.NewStorageError(backendName, "count", "", err)
	}
	return n, nil
}

// withTx runs fn in its own transaction, committing on success.
func (s *SqliteStateStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
