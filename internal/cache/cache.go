package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTL
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a fetched URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "lexipipe:v1:" + hex.EncodeToString(hash[:])
}
