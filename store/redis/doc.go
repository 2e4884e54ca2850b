// Package redis provides a Redis-backed persistent state store.
//
// The whole transposition table is one Redis hash named Prefix+TableName
// (default "pcp:transitions"). Each field is a frontier-state key and each
// value a JSON entry:
//
//	HGET pcp:transitions "u|ab"
//	{"bestRemainingDepth":3,"bestPathLength":1}
//
// Set runs HSET (and EXPIRE when a TTL is configured) in a MULTI/EXEC
// pipeline; Clear deletes the hash.
//
// Example:
//
//	st, err := redis.NewRedisStateStore(redis.RedisOptions{
//		Addr: "localhost:6379",
//	})
//	if err != nil {
//		return err
//	}
//	if err := st.Ping(ctx); err != nil {
//		return err
//	}
//	defer st.Close()
package redis
