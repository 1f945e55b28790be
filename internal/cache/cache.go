package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for response caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a request URL. The URL is hashed, so query
// secrets like the gateway api-key never appear in file names; rotating the
// key simply misses the old entries.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "fra-atlas:v1:" + hex.EncodeToString(hash[:])
}
