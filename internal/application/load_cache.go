package application

import (
	"fmt"
	"sync"
	"time"
)

// loadCache memoizes committed-effort lookups for calendar days within a
// scheduling run. Every task update invalidates the cache wholesale so that
// later day scans observe effort committed earlier in the same run.
type loadCache struct {
	mu         sync.RWMutex
	maxEntries int
	entries    map[string]int
}

func newLoadCache(maxEntries int) *loadCache {
	if maxEntries <= 0 {
		maxEntries = 512
	}
	return &loadCache{
		maxEntries: maxEntries,
		entries:    make(map[string]int),
	}
}

func (c *loadCache) Get(key string) (int, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.RLock()
	committed, ok := c.entries[key]
	c.mu.RUnlock()
	return committed, ok
}

func (c *loadCache) Store(key string, committed int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = committed
}

func (c *loadCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]int)
	c.mu.Unlock()
}

func (c *loadCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func buildLoadCacheKey(userID string, day time.Time) string {
	return fmt.Sprintf("%s|%s", userID, day.UTC().Format("2006-01-02"))
}
