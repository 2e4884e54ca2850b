package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable is matched (via errors.Is) by every error a backend returns
// when its underlying storage cannot serve a request.
var ErrUnavailable = errors.New("storage unavailable")

// StorageError describes a failed store operation.
type StorageError struct {
	// Backend names the store implementation, e.g. "sqlite"
	Backend string
	// Op is one of "open", "get", "set" or "clear"
	Op string
	// Key is the state key involved, empty for clear and open
	Key string
	// Err is the underlying cause
	Err error
}

// NewStorageError builds a StorageError.
func NewStorageError(backend, op, key string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Key: key, Err: err}
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s %q: %v", e.Backend, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports every StorageError as ErrUnavailable.
func (e *StorageError) Is(target error) bool {
	return target == ErrUnavailable
}
