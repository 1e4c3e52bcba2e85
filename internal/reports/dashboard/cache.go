package dashboard

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long computed responses stay fresh
const DefaultTTL = 5 * time.Minute

// Observer is notified of cache lookups
type Observer interface {
	CacheHit()
	CacheMiss()
}

// ResponseCache keeps computed responses in memory for a fixed TTL
type ResponseCache struct {
	data     map[string]*cacheEntry
	ttl      time.Duration
	mu       sync.RWMutex
	now      func() time.Time
	observer Observer

	hits        int64
	misses      int64
	lastCleanup time.Time
	statsMu     sync.RWMutex

	cleanup *time.Ticker
	done    chan struct{}
	stop    sync.Once
}

// cacheEntry represents a cache entry with expiration
type cacheEntry struct {
	value      interface{}
	expiration time.Time
}

// CacheStats reports cache usage
type CacheStats struct {
	Size        int       `json:"size"`
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	HitRate     float64   `json:"hit_rate"`
	TTLSeconds  float64   `json:"ttl_seconds"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// NewResponseCache creates a cache and starts its cleanup loop. A zero ttl
// uses DefaultTTL. observer may be nil.
func NewResponseCache(ttl time.Duration, observer Observer) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := &ResponseCache{
		data:        make(map[string]*cacheEntry),
		ttl:         ttl,
		now:         time.Now,
		observer:    observer,
		lastCleanup: time.Now(),
		cleanup:     time.NewTicker(time.Minute),
		done:        make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// Get retrieves a fresh value and records the lookup
func (c *ResponseCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.data[key]
	fresh := ok && !c.now().After(entry.expiration)
	c.mu.RUnlock()

	c.record(fresh)
	if !fresh {
		return nil, false
	}
	return entry.value, true
}

func (c *ResponseCache) record(hit bool) {
	c.statsMu.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	c.statsMu.Unlock()

	if c.observer == nil {
		return
	}
	if hit {
		c.observer.CacheHit()
	} else {
		c.observer.CacheMiss()
	}
}

// Set stores a value in the cache
func (c *ResponseCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &cacheEntry{
		value:      value,
		expiration: c.now().Add(c.ttl),
	}
}

// Delete removes a value from the cache
func (c *ResponseCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
}

// DeleteByPrefix removes all entries with keys starting with the given prefix
func (c *ResponseCache) DeleteByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

// Size returns the number of entries in the cache, expired ones included
func (c *ResponseCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// GetOrSet retrieves a value from the cache, or computes and stores it if not present
func (c *ResponseCache) GetOrSet(key string, compute func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.Set(key, value)

	return value, nil
}

// cleanupLoop periodically removes expired entries
func (c *ResponseCache) cleanupLoop() {
	for {
		select {
		case <-c.cleanup.C:
			c.removeExpired()
		case <-c.done:
			return
		}
	}
}

// removeExpired removes expired entries
func (c *ResponseCache) removeExpired() {
	c.mu.Lock()
	now := c.now()
	for key, entry := range c.data {
		if now.After(entry.expiration) {
			delete(c.data, key)
		}
	}
	c.mu.Unlock()

	c.statsMu.Lock()
	c.lastCleanup = now
	c.statsMu.Unlock()
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (c *ResponseCache) Stop() {
	c.stop.Do(func() {
		c.cleanup.Stop()
		close(c.done)
	})
}

// Stats returns cache statistics
func (c *ResponseCache) Stats() CacheStats {
	size := c.Size()

	c.statsMu.RLock()
	defer c.statsMu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return CacheStats{
		Size:        size,
		Hits:        c.hits,
		Misses:      c.misses,
		HitRate:     hitRate,
		TTLSeconds:  c.ttl.Seconds(),
		LastCleanup: c.lastCleanup,
	}
}

// ResetStats resets the statistics
func (c *ResponseCache) ResetStats() {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	c.hits = 0
	c.misses = 0
}
