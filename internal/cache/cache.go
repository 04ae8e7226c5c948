package cache

import (
	"context"
	"errors"
	"fmt"
)

// Entry is a single cached value. Payload is opaque to the store; ExpiresAt is
// seconds since epoch and the entry is live while now < ExpiresAt.
type Entry struct {
	Key       string
	Payload   []byte
	ExpiresAt int64
}

// Store is a durable key to entry map. Implementations never interpret
// ExpiresAt: expiry is decided by the reader.
type Store interface {
	// Get returns the entry and whether it was present. A missing key is not an error.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Put stores the entry, overwriting any entry with the same key.
	Put(ctx context.Context, e Entry) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ScanAll enumerates every entry in no particular order.
	ScanAll(ctx context.Context) ([]Entry, error)
}

// ErrStoreUnavailable marks any failure talking to the backing store.
var ErrStoreUnavailable = errors.New("cache store unavailable")

// StoreError wraps a backend failure with the operation and key involved.
// It matches both ErrStoreUnavailable and the underlying error.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

func storeErr(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Err: err}
}
