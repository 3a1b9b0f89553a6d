package cache

import (
	"sync"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// Option configures a MemoryCache
type Option func(*MemoryCache)

// WithClock replaces the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// WithTTL overrides the validity window of entries
func WithTTL(ttl time.Duration) Option {
	return func(c *MemoryCache) {
		c.ttl = ttl
	}
}

// MemoryCache is the in-memory risk cache keyed by exact URL
type MemoryCache struct {
	entries map[string]core.CacheEntry
	mu      sync.RWMutex
	logger  *zap.Logger
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a new in-memory risk cache
func NewMemoryCache(logger *zap.Logger, opts ...Option) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]core.CacheEntry),
		logger:  logger,
		ttl:     core.CacheDuration,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the verdict for url only while it is younger than the TTL.
// Age is checked here on every read, whether or not a sweep has run.
func (c *MemoryCache) Get(url string) (*core.Verdict, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok || !entry.ValidAt(c.now(), c.ttl) {
		return nil, false
	}

	verdict := entry.Verdict
	return &verdict, true
}

// Put stores verdict for url stamped with the current time
func (c *MemoryCache) Put(url string, verdict core.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[url] = core.CacheEntry{
		URL:        url,
		Verdict:    verdict,
		ObtainedAt: c.now(),
	}
}

// Sweep removes expired entries and returns how many were dropped
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiredCount := 0
	for key, entry := range c.entries {
		if !entry.ValidAt(now, c.ttl) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired cache entries",
		zap.Int("expired_count", expiredCount),
		zap.Int("remaining", len(c.entries)))
	return expiredCount
}

// Len returns the number of stored entries, fresh or not
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
