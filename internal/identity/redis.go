package identity

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "guest-profile:"

// nullPayload is the stored form of a cached "directory has no record"
// entry: a nil *Profile marshals to this literal, so Set needs no special
// casing and Get must map it back to a nil hit.
const nullPayload = "null"

// RedisCache is a Cache backed by Redis, for multi-instance deployments
// where all API servers should share one profile cache.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, guestID string) (*Profile, bool) {
	raw, err := c.client.Get(ctx, profileKeyPrefix+guestID).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis profile get failed: %v", err)
		}
		return nil, false
	}

	p, err := decodeCachedProfile(raw)
	if err != nil {
		log.Printf("corrupt cached profile for %s: %v", guestID, err)
		c.Invalidate(ctx, guestID)
		return nil, false
	}
	return p, true
}

// decodeCachedProfile maps a stored payload back to a profile. The null
// payload is a valid hit meaning "no record", matching what MemoryCache
// returns for a cached nil.
func decodeCachedProfile(raw string) (*Profile, error) {
	if raw == nullPayload {
		return nil, nil
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RedisCache) Set(ctx context.Context, guestID string, p *Profile, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	raw, err := json.Marshal(p)
	if err != nil {
		log.Printf("marshal profile for cache failed: %v", err)
		return
	}

	// Cache write failures are non-fatal; the next read goes to the directory.
	if err := c.client.Set(ctx, profileKeyPrefix+guestID, raw, ttl).Err(); err != nil {
		log.Printf("redis profile set failed: %v", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, guestID string) {
	if err := c.client.Del(ctx, profileKeyPrefix+guestID).Err(); err != nil {
		log.Printf("redis profile invalidate failed: %v", err)
	}
}
