package store

import "errors"

// Store errors.
var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store: closed")

	// ErrInvalidKey is returned for keys a backend cannot represent.
	ErrInvalidKey = errors.New("store: invalid key")

	// ErrUnsupportedBackend is returned by Open for unknown backends.
	ErrUnsupportedBackend = errors.New("store: unsupported backend")

	// ErrWatcherClosed is returned when watching through a closed watcher.
	ErrWatcherClosed = errors.New("store: watcher is closed")
)
