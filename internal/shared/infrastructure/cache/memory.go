package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value      []byte
	insertedAt time.Time
	ttl        time.Duration
}

func (e memoryEntry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.insertedAt) >= e.ttl
}

// MemoryCache is a process-local cache. Values are stored encoded so callers
// never share mutable state with the cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates a memory cache. A nil now uses time.Now.
func NewMemoryCache(now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if entry.expired(c.now()) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && current.insertedAt.Equal(entry.insertedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(entry.value, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: data, insertedAt: c.now(), ttl: ttl}
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
