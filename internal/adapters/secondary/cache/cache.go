package cache

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

const (
	// DefaultMaxBytes bounds the rendered HTML kept in memory
	DefaultMaxBytes = 32 * 1024 * 1024

	// DefaultTTL is how long an unused fragment stays cached
	DefaultTTL = time.Hour
)

// HTMLCache keeps rendered fragments by key, evicting the least recently
// used entry once the byte budget is exceeded.
type HTMLCache struct {
	mu          sync.Mutex
	entries     map[string]*entry
	lru         *lruHeap
	maxBytes    int64
	currentSize int64
	now         func() time.Time
	stats       entities.CacheStats
}

type entry struct {
	html      string
	expiresAt time.Time
	node      *heapEntry
}

// NewHTMLCache creates a cache holding at most maxBytes of HTML
func NewHTMLCache(maxBytes int64) *HTMLCache {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	h := &lruHeap{}
	heap.Init(h)

	return &HTMLCache{
		entries:  make(map[string]*entry),
		lru:      h,
		maxBytes: maxBytes,
		now:      time.Now,
		stats:    entities.CacheStats{MaxSize: int(maxBytes)},
	}
}

// Get returns the fragment stored under key
func (c *HTMLCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return "", false
	}

	now := c.now()
	if now.After(e.expiresAt) {
		c.remove(key, e)
		c.stats.Evictions++
		c.stats.Misses++
		return "", false
	}

	c.stats.Hits++
	e.node.lastAccess = now
	heap.Fix(c.lru, e.node.index)
	return e.html, true
}

// Set stores html under key for ttl. Fragments larger than the whole
// budget are not cached.
func (c *HTMLCache) Set(key, html string, ttl time.Duration) {
	size := int64(len(key) + len(html))
	if size > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.remove(key, old)
	}

	if c.currentSize+size > c.maxBytes {
		c.evict(size)
	}

	now := c.now()
	node := &heapEntry{key: key, lastAccess: now}
	heap.Push(c.lru, node)
	c.entries[key] = &entry{html: html, expiresAt: now.Add(ttl), node: node}
	c.currentSize += size
	c.stats.Size = len(c.entries)
}

// Clear drops every entry; counters are kept
func (c *HTMLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
	*c.lru = (*c.lru)[:0]
	c.currentSize = 0
	c.stats.Size = 0
}

// Stats returns hit and eviction counters
func (c *HTMLCache) Stats() entities.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

// Cleanup removes expired entries
func (c *HTMLCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			c.remove(key, e)
			c.stats.Evictions++
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done
func (c *HTMLCache) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Cleanup()
			}
		}
	}()
}

// evict drops expired entries, then the least recently used, until needed fits
func (c *HTMLCache) evict(needed int64) {
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			c.remove(key, e)
			c.stats.Evictions++
		}
	}

	for c.currentSize+needed > c.maxBytes && c.lru.Len() > 0 {
		node := heap.Pop(c.lru).(*heapEntry)
		if e, ok := c.entries[node.key]; ok {
			delete(c.entries, node.key)
			c.currentSize -= int64(len(node.key) + len(e.html))
			c.stats.Evictions++
		}
	}
}

// remove must be called with mu held
func (c *HTMLCache) remove(key string, e *entry) {
	if e.node.index >= 0 {
		heap.Remove(c.lru, e.node.index)
	}
	delete(c.entries, key)
	c.currentSize -= int64(len(key) + len(e.html))
	c.stats.Size = len(c.entries)
}
