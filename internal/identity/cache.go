package identity

import (
	"context"
	"sync"
	"time"
)

// Cache stores resolved profiles with a per-entry TTL and supports explicit
// invalidation. It is injected into the resolver rather than held as
// package state, so every call site that mutates an identity can invalidate
// its entry.
type Cache interface {
	Get(ctx context.Context, guestID string) (*Profile, bool)
	Set(ctx context.Context, guestID string, p *Profile, ttl time.Duration)
	Invalidate(ctx context.Context, guestID string)
}

type memoryEntry struct {
	profile   *Profile
	expiresAt time.Time
}

// MemoryCache is a bounded in-process Cache for deployments without Redis.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries < 1 {
		maxEntries = 1024
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, guestID string) (*Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[guestID]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, guestID)
		return nil, false
	}
	return e.profile, true
}

func (c *MemoryCache) Set(ctx context.Context, guestID string, p *Profile, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}

	c.entries[guestID] = memoryEntry{
		profile:   p,
		expiresAt: c.now().Add(ttl),
	}
}

func (c *MemoryCache) Invalidate(ctx context.Context, guestID string) {
	c.mu.Lock()
	delete(c.entries, guestID)
	c.mu.Unlock()
}

// evictLocked frees room: expired entries first, then an arbitrary entry so
// the bound always holds. Callers hold the mutex.
func (c *MemoryCache) evictLocked() {
	now := c.now()
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}
	for id := range c.entries {
		delete(c.entries, id)
		return
	}
}
