package storage

import (
	"context"
	"errors"
)

// Store is the key-value persistence contract consumed by the rest of the
// system. Every method may suspend on I/O and may fail with an error
// wrapping ErrIO. The store serialises its own operations; callers do not
// need external locking.
type Store interface {
	// Get retrieves the value stored at key.
	// Returns ErrKeyNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// MultiGet retrieves the values for the given keys.
	// Absent keys are omitted from the result map.
	MultiGet(ctx context.Context, keys []string) (map[string]string, error)

	// MultiRemove deletes the given keys. Absent keys are ignored.
	MultiRemove(ctx context.Context, keys []string) error

	// Keys returns every key currently in the store.
	Keys(ctx context.Context) ([]string, error)
}

// Sentinel errors for store operations.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, storage.ErrKeyNotFound) {
//	    // handle absent key
//	}
var (
	// ErrKeyNotFound is returned by Get when the key is absent.
	ErrKeyNotFound = errors.New("storage: key not found")

	// ErrIO wraps failures of the underlying backend.
	ErrIO = errors.New("storage: io failure")
)
