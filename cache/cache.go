package cache

import (
	"sync"
	"time"

	"github.com/use-agent/readmode/models"
)

// entry holds a cached conversion with its creation timestamp.
type entry struct {
	result    *models.ConvertResult
	createdAt time.Time
}

// Cache is an in-memory URL cache for conversion results.
// Entries expire after the TTL (checked on every read, so stale reads are
// impossible) and the oldest entry is dropped FIFO when the cache is full.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	store      map[string]*entry
	order      []string // insertion order, oldest first
	maxEntries int
	ttl        time.Duration

	now func() time.Time // overridable in tests
}

// New creates a Cache with the given capacity and per-entry TTL.
// A background goroutine sweeps expired entries every minute.
func New(maxEntries int, ttl time.Duration) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a cached result for a URL. Expired entries are removed on
// the spot and reported as misses.
func (c *Cache) Get(url string) (*models.ConvertResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store[url]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		c.remove(url)
		return nil, false
	}
	return e.result, true
}

// Set stores a result for a URL. If the cache is at capacity the oldest
// entry is evicted first.
func (c *Cache) Set(url string, result *models.ConvertResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.store[url]; ok {
		// Refresh in place, keeping the original FIFO position.
		e.result = result
		e.createdAt = c.now()
		return
	}

	for len(c.store) >= c.maxEntries && len(c.order) > 0 {
		c.remove(c.order[0])
	}

	c.store[url] = &entry{result: result, createdAt: c.now()}
	c.order = append(c.order, url)
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// remove deletes a key from both the map and the order slice.
// Caller must hold c.mu.
func (c *Cache) remove(url string) {
	delete(c.store, url)
	for i, k := range c.order {
		if k == url {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// cleanupLoop evicts expired entries every minute.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		cutoff := c.now().Add(-c.ttl)
		for url, e := range c.store {
			if e.createdAt.Before(cutoff) {
				c.remove(url)
			}
		}
		c.mu.Unlock()
	}
}
