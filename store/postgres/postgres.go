package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smallnest/pcpsolver/store"
)

const backendName = "postgres"

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStateStore implements store.StateStore using PostgreSQL
type PostgresStateStore struct {
	pool      DBPool
	tableName string
}

var _ store.StateStore = (*PostgresStateStore)(nil)

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "transitions"
}

// NewPostgresStateStore connects, verifies the server and creates the table
// if needed
func NewPostgresStateStore(ctx context.Context, opts PostgresOptions) (*PostgresStateStore, error) {
	if err := validateTable(opts.TableName); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, store.NewStorageError(backendName, "open", "", fmt.Errorf("unable to create connection pool: %w", err))
	}

	s := NewPostgresStateStoreWithPool(pool, opts.TableName)
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, store.NewStorageError(backendName, "open", "", fmt.Errorf("unable to reach database: %w", err))
	}
	if err := s.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStateStoreWithPool creates a store with an existing pool.
// Useful for testing with mocks. The table name must already be valid.
func NewPostgresStateStoreWithPool(pool DBPool, tableName string) *PostgresStateStore {
	if tableName == "" {
		tableName = store.DefaultTable
	}
	return &PostgresStateStore{
		pool:      pool,
		tableName: tableName,
	}
}

func validateTable(name string) error {
	if name == "" {
		return nil
	}
	if err := store.ValidateTableName(name); err != nil {
		return store.NewStorageError(backendName, "open", "", err)
	}
	return nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresStateStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			best_remaining_depth INTEGER NOT NULL,
			best_path_length INTEGER NOT NULL
		);
	`, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return store.NewStorageError(backendName, "open", "", fmt.Errorf("failed to create schema: %w", err))
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStateStore) Close() error {
	s.pool.Close()
	return nil
}

// Get retrieves the entry for key
func (s *PostgresStateStore) Get(ctx context.Context, key string) (store.Entry, bool, error) {
	query := fmt.Sprintf(`
		SELECT best_remaining_depth, best_path_length
		FROM %s
		WHERE key = $1
	`, s.tableName)

	var entry store.Entry
	err := s.pool.QueryRow(ctx, query, key).Scan(
		&entry.BestRemainingDepth,
		&entry.BestPathLength,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Entry{}, false, nil
		}
		return store.Entry{}, false, store.NewStorageError(backendName, "get", key, fmt.Errorf("failed to load entry: %w", err))
	}

	return entry, true, nil
}

// Set upserts the entry for key in its own transaction
func (s *PostgresStateStore) Set(ctx context.Context, key string, entry store.Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, best_remaining_depth, best_path_length)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			best_remaining_depth = EXCLUDED.best_remaining_depth,
			best_path_length = EXCLUDED.best_path_length
	`, s.tableName)

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query, key, entry.BestRemainingDepth, entry.BestPathLength)
		return err
	})
	if err != nil {
		return store.NewStorageError(backendName, "set", key, fmt.Errorf("failed to save entry: %w", err))
	}
	return nil
}

// Clear removes every entry in its own transaction
func (s *PostgresStateStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.tableName)

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query)
		return err
	})
	if err != nil {
		return store.NewStorageError(backendName, "clear", "", fmt.Errorf("failed to clear entries: %w", err))
	}
	return nil
}

// withTx runs fn in its own transaction, rolling back when fn fails.
func (s *PostgresStateStore) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
