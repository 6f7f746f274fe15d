// Package kvstore is a keyed byte store with TTL semantics. The dialog
// state, the last-selection cache, the outbound lock and the listing
// cache all sit on it, so a multi-instance deployment can swap the
// in-process backend for redis without touching callers.
package kvstore

import (
	"context"
	"time"
)

type Store interface {
	// Get returns the value and whether the key is present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes the value. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX writes only when the key is absent; reports whether it wrote.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}
