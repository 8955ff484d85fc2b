package store

import (
	"context"
	"fmt"
	"strings"
)

// Backend names.
const (
	BackendBbolt  = "bbolt"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Store is a key-value store for raw values.
type Store interface {
	// Get returns the value for key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every key with the given prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Backend returns the backend name.
	Backend() string

	Close() error
}

// Open opens the named backend at path. path is a database file for bbolt,
// a directory for file, and ignored for memory.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendBbolt:
		return OpenBbolt(path)
	case BackendFile:
		return OpenFile(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
	}
}
