// Package lru provides a write-through LRU cache that decorates any
// store.StateStore.
//
// The cache bounds the number of resident entries while the delegate stays
// authoritative: every Set is written through, misses are filled from the
// delegate, and Clear empties both. A delegate write that fails drops the
// key from the cache so the cache never holds a value the delegate lacks.
package lru

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/smallnest/pcpsolver/store"
)

// Stats contains cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int // Current number of resident entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// CacheStore wraps a delegate StateStore with a bounded LRU cache.
//
// Thread Safety: all methods are safe for concurrent use. Operations are
// serialized so a cache update and its delegate write are never interleaved
// with another operation.
type CacheStore struct {
	mu         sync.Mutex
	delegate   store.StateStore
	maxEntries int
	items      map[string]*list.Element
	order      *list.List // Front = most recent, Back = least recent

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type cacheEntry struct {
	key   string
	value store.Entry
}

var _ store.StateStore = (*CacheStore)(nil)

// New creates a cache in front of delegate holding at most maxEntries
// entries. maxEntries below 1 is treated as 1.
func New(delegate store.StateStore, maxEntries int) *CacheStore {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &CacheStore{
		delegate:   delegate,
		maxEntries: maxEntries,
		items:      make(map[string]*list.Element, maxEntries),
		order:      list.New(),
	}
}

// Get returns a cached entry, promoting it, or reads through to the
// delegate and caches what it finds.
func (c *CacheStore) Get(ctx context.Context, key string) (store.Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		c.hits.Add(1)
		return elem.Value.(*cacheEntry).value, true, nil
	}
	c.misses.Add(1)

	entry, ok, err := c.delegate.Get(ctx, key)
	if err != nil || !ok {
		return entry, ok, err
	}

	c.put(key, entry)
	return entry, true, nil
}

// Set updates the cache and writes through to the delegate.
func (c *CacheStore) Set(ctx context.Context, key string, entry store.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.put(key, entry)

	if err := c.delegate.Set(ctx, key, entry); err != nil {
		c.remove(key)
		return err
	}
	return nil
}

// Clear empties the cache and clears the delegate.
func (c *CacheStore) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element, c.maxEntries)
	c.order.Init()

	return c.delegate.Clear(ctx)
}

// Contains reports whether key is resident in the cache, without touching
// recency or the delegate.
func (c *CacheStore) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	return ok
}

// Len returns the number of resident entries.
func (c *CacheStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Stats returns cache statistics.
func (c *CacheStore) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.Len(),
	}
}

// Delegate returns the wrapped store.
func (c *CacheStore) Delegate() store.StateStore {
	return c.delegate
}

// put inserts or updates key as most recent and evicts past capacity.
// Caller must hold c.mu.
func (c *CacheStore) put(key string, value store.Entry) {
	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry).value = value
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	for c.order.Len() > c.maxEntries {
		c.evictOldest()
	}
}

// Caller must hold c.mu.
func (c *CacheStore) remove(key string) {
	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

// Caller must hold c.mu.
func (c *CacheStore) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*cacheEntry).key)
	c.evictions.Add(1)
}
