// Package cache provides a small in-memory TTL cache for the public browse
// endpoints. The visible catalog changes rarely (seed reloads, admin edits,
// approvals), so list responses are served from memory between mutations.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value      []byte
	expiresAt  time.Time
	insertedAt time.Time
}

// BrowseCache is a thread-safe cache with TTL and max-size eviction, keyed
// by request URI. At capacity the oldest entry by insertion time is
// evicted; expired entries are lazily evicted on Get.
type BrowseCache struct {
	mu      sync.Mutex
	items   map[string]*entry
	maxSize int
	ttl     time.Duration
}

// New creates a BrowseCache. maxSize < 1 becomes 1; ttl <= 0 defaults to
// 30 seconds.
func New(maxSize int, ttl time.Duration) *BrowseCache {
	if maxSize < 1 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &BrowseCache{
		items:   make(map[string]*entry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get retrieves a cached response body. Returns (nil, false) for missing or
// expired keys.
func (c *BrowseCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return e.value, true
}

// Set stores a response body, evicting the oldest entry at capacity.
func (c *BrowseCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, ok := c.items[key]; !ok && len(c.items) >= c.maxSize {
		c.evictOldest()
	}
	c.items[key] = &entry{
		value:      value,
		expiresAt:  now.Add(c.ttl),
		insertedAt: now,
	}
}

// Invalidate drops every cached response. Called after any catalog
// mutation; the catalog is small enough that targeted invalidation is not
// worth the bookkeeping.
func (c *BrowseCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry, c.maxSize)
}

// Size returns the number of entries, including not yet evicted expired
// ones.
func (c *BrowseCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// evictOldest removes the entry with the oldest insertedAt timestamp.
// Must be called with c.mu held.
func (c *BrowseCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for k, e := range c.items {
		if first || e.insertedAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.insertedAt
			first = false
		}
	}
	if !first {
		delete(c.items, oldestKey)
	}
}
