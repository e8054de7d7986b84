package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is the shared storage port for analysis and generation results.
// Implementations must treat entries as opaque bytes and honor the TTL; there
// is no invalidation API, entries simply expire.
type Cache interface {
	// Get returns the stored value and true, or (nil, false) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// SetWithTTL stores the value for the given duration.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a deterministic content-hash cache key from the given input
// parts. Parts are joined with an unlikely separator before hashing so that
// ("ab","c") and ("a","bc") produce different keys.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "\x1f")))
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}
