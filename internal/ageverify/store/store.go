// Package store provides the key-value persistence port for age verification
// records. The session logic above it owns expiry and shape validation, so
// implementations only move opaque bytes; this keeps the 24-hour window
// testable without Redis.
package store

import (
	"context"
	"time"
)

// KeyPrefix namespaces verification records. The suffix is the browsing
// session ID; the prefix matches the storefront's localStorage key.
const KeyPrefix = "liquor_age_verification:"

// KV is the minimal key-value contract the verification session needs.
// Get returns sentinel.ErrNotFound when the key is absent. The ttl passed to
// Set is a storage-level garbage collection hint; the session re-checks
// validity on every read regardless.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
