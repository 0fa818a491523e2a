package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is the interface shared by the memory, disk, and layered caches.
// The article source uses it to avoid refetching feeds and pages for the
// same company within the configured TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// FeedKey builds the cache key for one source's feed query for one company.
func FeedKey(sourceName, company string) string {
	return key("feed", sourceName, strings.ToLower(company))
}

// PageKey builds the cache key for a scraped article page.
func PageKey(url string) string {
	return key("page", url)
}

func key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "equinews:v1:" + hex.EncodeToString(hash[:])
}
