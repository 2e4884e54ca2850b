package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallnest/pcpsolver/store"
)

const backendName = "redis"

// RedisStateStore implements store.StateStore using a single Redis hash per
// table. Fields are state keys, values are JSON-encoded entries.
type RedisStateStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ store.StateStore = (*RedisStateStore)(nil)

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	Prefix    string        // Key prefix, default "pcp:"
	TableName string        // Default "transitions"
	TTL       time.Duration // Expiration for the table hash, default 0 (no expiration)
}

// NewRedisStateStore creates a new Redis state store. The connection is
// established lazily; call Ping to verify it.
func NewRedisStateStore(opts RedisOptions) (*RedisStateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	s, err := NewRedisStateStoreWithClient(client, opts)
	if err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// NewRedisStateStoreWithClient creates a store around an existing client.
// Addr, Password and DB in opts are ignored.
func NewRedisStateStoreWithClient(client *redis.Client, opts RedisOptions) (*RedisStateStore, error) {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "pcp:"
	}
	table := opts.TableName
	if table == "" {
		table = store.DefaultTable
	}
	if err := store.ValidateTableName(table); err != nil {
		return nil, store.NewStorageError(backendName, "open", "", err)
	}

	return &RedisStateStore{
		client: client,
		key:    prefix + table,
		ttl:    opts.TTL,
	}, nil
}

// Ping checks that the server is reachable
func (s *RedisStateStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return store.NewStorageError(backendName, "open", "", fmt.Errorf("failed to reach redis: %w", err))
	}
	return nil
}

// Close closes the client
func (s *RedisStateStore) Close() error {
	return s.client.Close()
}

// Key returns the Redis key of the table hash
func (s *RedisStateStore) Key() string {
	return s.key
}

// Get retrieves the entry for key
func (s *RedisStateStore) Get(ctx context.Context, key string) (store.Entry, bool, error) {
	data, err := s.client.HGet(ctx, s.key, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.Entry{}, false, nil
		}
		return store.Entry{}, false, store.NewStorageError(backendName, "get", key, err)
	}

	entry, err := store.UnmarshalEntry(data)
	if err != nil {
		return store.Entry{}, false, store.NewStorageError(backendName, "get", key, err)
	}
	return entry, true, nil
}

// Set stores the entry for key
func (s *RedisStateStore) Set(ctx context.Context, key string, entry store.Entry) error {
	data, err := store.MarshalEntry(entry)
	if err != nil {
		return store.NewStorageError(backendName, "set", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return store.NewStorageError(backendName, "set", key, err)
	}
	return nil
}

// Clear deletes the table hash
func (s *RedisStateStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return store.NewStorageError(backendName, "clear", "", err)
	}
	return nil
}
