package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultTable is the logical table holding frontier-state entries when a
// backend is not given an explicit name.
const DefaultTable = "transitions"

// DefaultDatabase is the logical database name used by backends that need one.
const DefaultDatabase = "pcp_solver"

// Entry is the memoization record kept per frontier state during a single
// depth-bound iteration.
type Entry struct {
	// BestRemainingDepth is the largest remaining depth budget with which the
	// state has been expanded in the current iteration.
	BestRemainingDepth int `json:"bestRemainingDepth"`

	// BestPathLength is the path length at the time of that expansion.
	BestPathLength int `json:"bestPathLength"`
}

// StateStore defines the key/value contract the search uses for its
// transposition table.
type StateStore interface {
	// Get returns the entry stored under key. The boolean is false when the
	// key is absent.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set stores entry under key, replacing any previous value
	Set(ctx context.Context, key string, entry Entry) error

	// Clear removes every entry
	Clear(ctx context.Context) error
}

// MarshalEntry encodes an entry for backends that store opaque values.
func MarshalEntry(entry Entry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}
	return data, nil
}

// UnmarshalEntry decodes an entry written by MarshalEntry.
func UnmarshalEntry(data []byte) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return entry, nil
}

// ValidateTableName rejects names that cannot be interpolated into SQL or
// key prefixes safely. Only letters, digits and underscores are allowed and
// the name may not start with a digit.
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name is empty")
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("invalid table name %q", name)
		}
	}
	return nil
}
