package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16)

	p := &Profile{ID: "guest-1", FullName: "Alex Doe"}
	c.Set(ctx, "guest-1", p, time.Minute)

	got, ok := c.Get(ctx, "guest-1")
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = c.Get(ctx, "guest-2")
	assert.False(t, ok)
}

func TestMemoryCacheCachesNilProfile(t *testing.T) {
	// A directory miss is cached too; ok distinguishes "cached nil" from
	// "not cached".
	ctx := context.Background()
	c := NewMemoryCache(16)

	c.Set(ctx, "guest-1", nil, time.Minute)

	got, ok := c.Get(ctx, "guest-1")
	require.True(t, ok)
	assert.Nil(t, got)
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "guest-1", &Profile{ID: "guest-1"}, 10*time.Minute)

	now = now.Add(9 * time.Minute)
	_, ok := c.Get(ctx, "guest-1")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "guest-1")
	assert.False(t, ok)
}

func TestMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16)

	c.Set(ctx, "guest-1", &Profile{ID: "guest-1"}, time.Minute)
	c.Invalidate(ctx, "guest-1")

	_, ok := c.Get(ctx, "guest-1")
	assert.False(t, ok)

	// Invalidating an absent key is a no-op.
	c.Invalidate(ctx, "guest-2")
}

func TestMemoryCacheBound(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(4)

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("guest-%d", i)
		c.Set(ctx, id, &Profile{ID: id}, time.Minute)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.LessOrEqual(t, len(c.entries), 4)
}

func TestMemoryCacheEvictsExpiredFirst(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "stale", &Profile{ID: "stale"}, time.Second)
	c.Set(ctx, "fresh", &Profile{ID: "fresh"}, time.Hour)

	now = now.Add(time.Minute)
	c.Set(ctx, "new", &Profile{ID: "new"}, time.Hour)

	// The expired entry made room; the fresh one survives.
	_, ok := c.Get(ctx, "fresh")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "new")
	assert.True(t, ok)
}

func TestMemoryCacheZeroTTLNotStored(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16)

	c.Set(ctx, "guest-1", &Profile{ID: "guest-1"}, 0)

	_, ok := c.Get(ctx, "guest-1")
	assert.False(t, ok)
}
