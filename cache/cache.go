// Package cache holds fetched auxiliary-page bodies so a batch that
// revisits the same model code does not re-fetch the specification
// sub-pages.
package cache

import (
	"sync"
	"time"
)

// entry holds one cached body with its creation timestamp.
type entry struct {
	body      []byte
	createdAt time.Time
}

// Cache is a simple in-memory byte cache keyed by URL.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
}

// New creates a Cache with the given capacity and entry lifetime.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get returns the cached body for key if it exists and has not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.ttl {
		return nil, false
	}
	return e.body, true
}

// Set stores a body. If the cache is at capacity, a random entry is
// evicted to make room (map iteration is random in Go).
func (c *Cache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}
	c.store[key] = &entry{body: body, createdAt: time.Now()}
}
