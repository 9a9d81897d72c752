package folio

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cache entry stays fresh unless configured
// otherwise.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	data      any
	timestamp time.Time
}

// Cache is a short-TTL store keyed by request descriptor. Each Client owns
// its own Cache; entries are never shared across clients. There is one entry
// per key and no size bound: the client caches one entry per GET endpoint,
// not arbitrary payloads.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewCache builds a cache with the given TTL. A non-positive ttl falls back
// to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the stored value for key regardless of age. Callers combine it
// with IsValid; a forced refresh skips both and overwrites via Set.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return entry.data, true
}

// Set stores value under key with the current timestamp, replacing any
// previous entry.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: value, timestamp: c.now()}
}

// IsValid reports whether an entry exists for key and is younger than the
// TTL.
func (c *Cache) IsValid(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	return c.now().Sub(entry.timestamp) < c.ttl
}

// Clear drops the named entries, or every entry when called with no keys.
func (c *Cache) Clear(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[string]cacheEntry)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
}
