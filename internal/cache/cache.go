// Package cache is a small in-process key/value store with per-entry TTL.
// Values are always serialized text: callers encode on Put and decode on
// Get. A miss is not an error, it just means "recompute from the sheet".
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Cache hits by key.",
	}, []string{"key"})
	misses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Cache misses (absent or expired) by key.",
	}, []string{"key"})
)

type entry struct {
	value     string
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or false when the key is absent or
// its TTL has elapsed. Expired entries are dropped on access; there is no
// background sweeper.
func (c *Cache) Get(key string) (string, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		misses.WithLabelValues(key).Inc()
		return "", false
	}
	if !e.expiresAt.After(now) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		misses.WithLabelValues(key).Inc()
		return "", false
	}

	hits.WithLabelValues(key).Inc()
	return e.value, true
}

// Put stores value under key for ttl. A non-positive ttl stores nothing.
func (c *Cache) Put(key, value string, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// RemoveAll drops the given keys. Unknown keys are ignored.
func (c *Cache) RemoveAll(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}
