// Package cache provides pluggable byte caches for generation inputs.
//
// crate2nix uses a cache to avoid re-running the metadata query when the
// manifest and lockfile are unchanged. Three backends are provided:
//
//   - FileCache: directory-based cache for local CLI usage
//   - RedisCache: shared cache for CI runners
//   - NullCache: disables caching entirely
//
// Backends store opaque byte slices with a per-entry TTL. Keys are hashed
// before hitting the backend, so callers may use arbitrary strings.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque byte values under string keys with expiration.
//
// Implementations must be safe for concurrent use. A missing or expired
// entry is reported as a miss (ok == false), never as an error.
type Cache interface {
	// Get retrieves the value for key. ok is false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
// Backends use it to derive safe storage keys; callers use it to build
// content-addressed cache keys (e.g., over Cargo.toml and Cargo.lock).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
