package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL-bounded memo for expensive computations. Entries expire by
// time only; writes to the underlying data never invalidate them, so a hit
// may be stale up to the TTL. Correctness must not depend on a hit: a miss
// only costs recomputation.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get returns the value stored under key if it has not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given TTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// GetOrCompute returns the memoized value for key, or invokes fn, stores
// its result for ttl and returns it. A failed fn is not cached.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && time.Now().Before(e.expiresAt) {
		return e.value, nil
	}

	v, err := fn()
	if err != nil {
		return nil, err
	}
	c.entries[key] = entry{value: v, expiresAt: time.Now().Add(ttl)}
	return v, nil
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
