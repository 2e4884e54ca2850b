package memory

import (
	"context"
	"sync"

	"github.com/smallnest/pcpsolver/store"
)

// MemoryStateStore keeps entries in a map. It never fails.
type MemoryStateStore struct {
	mu      sync.RWMutex
	entries map[string]store.Entry
}

var _ store.StateStore = (*MemoryStateStore)(nil)

// NewMemoryStateStore creates an empty in-memory store
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		entries: make(map[string]store.Entry),
	}
}

// Get returns the entry for key
func (m *MemoryStateStore) Get(_ context.Context, key string) (store.Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	return entry, ok, nil
}

// Set stores entry under key
func (m *MemoryStateStore) Set(_ context.Context, key string, entry store.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry
	return nil
}

// Clear drops every entry
func (m *MemoryStateStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]store.Entry)
	return nil
}

// Len returns the number of stored entries
func (m *MemoryStateStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}
