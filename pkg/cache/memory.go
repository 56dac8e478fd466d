package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a bounded in-process cache. When full, the oldest entry is
// evicted.
type MemoryCache struct {
	mu      sync.Mutex
	limit   int
	entries map[string]memEntry
}

type memEntry struct {
	data      []byte
	storedAt  time.Time
	expiresAt time.Time
}

// NewMemoryCache creates a cache holding at most size entries (minimum 1).
func NewMemoryCache(size int) *MemoryCache {
	return &MemoryCache{limit: max(size, 1), entries: make(map[string]memEntry)}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.limit {
		c.evict()
	}
	e := memEntry{data: data, storedAt: time.Now()}
	if ttl > 0 {
		e.expiresAt = e.storedAt.Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) evict() {
	var victim string
	var oldest time.Time
	for k, e := range c.entries {
		if victim == "" || e.storedAt.Before(oldest) {
			victim, oldest = k, e.storedAt
		}
	}
	delete(c.entries, victim)
}

// Len returns the number of stored entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

var _ Cache = (*MemoryCache)(nil)
