// Package cache stores rendered artifacts that are expensive to recompute.
//
// The flow chart itself is always recomputed from source. Only outputs of
// external renderers (the Graphviz section graph) are cached, keyed by a hash
// of their complete input.
//
// Implementations:
//   - [FileCache]: on-disk cache for the CLI (~/.cache/simasm)
//   - [MemoryCache]: in-process cache for the live server
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds a cache key "namespace:sha256(parts...)".
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Namespace returns the namespace part of a key.
func Namespace(key string) string {
	ns, _, _ := strings.Cut(key, ":")
	return ns
}

// Hash computes a SHA-256 hash of the input data as 64 hex characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
