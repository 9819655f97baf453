// Package storage provides the key-value stores that hold the session and
// the per-admin rosters. Values are opaque bytes; callers own the encoding.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Store is a minimal key-value store.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
