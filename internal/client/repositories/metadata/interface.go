// Package metadata is the client's durable key/value store. It backs the
// persisted session (token and username) and any other small client state.
package metadata

import (
	"context"
)

// Repository stores opaque values under string keys.
//
// Get returns (nil, nil) for a missing key. SetAll writes every pair or none.
// Delete is idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}
