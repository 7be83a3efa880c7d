package cache

import (
	"sync"
	"time"
)

// Cache is a TTL key/value store for values that are expensive or noisy to
// re-fetch on every render, such as filter option lists.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
	Size() int
}

type item struct {
	value      interface{}
	expiration time.Time
}

// MemoryCache is an in-memory Cache with per-entry TTL and a size bound.
// When full, the entry closest to expiry is evicted.
type MemoryCache struct {
	mu      sync.RWMutex
	items   map[string]item
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		items:   make(map[string]item),
		maxSize: maxSize,
	}
}

// Get returns the live value for key. Expired entries read as misses.
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiration) {
		c.Delete(key)
		return nil, false
	}
	return it.value, true
}

// Set stores value under key for ttl.
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok && len(c.items) >= c.maxSize {
		c.evictOldest()
	}
	c.items[key] = item{value: value, expiration: time.Now().Add(ttl)}
}

// Delete removes key.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes every entry.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item)
}

// Size returns the number of stored entries, expired ones included.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, it := range c.items {
		if oldestKey == "" || it.expiration.Before(oldest) {
			oldestKey = key
			oldest = it.expiration
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
