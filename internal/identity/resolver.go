package identity

import (
	"context"
	"time"
)

// CachedResolver wraps a Resolver with a Cache. Hits skip the directory
// entirely; misses are resolved and cached with the configured TTL.
// Missing profiles (nil) are cached too, so an unknown guest does not hammer
// the directory on every page load.
type CachedResolver struct {
	inner Resolver
	cache Cache
	ttl   time.Duration
}

func NewCachedResolver(inner Resolver, cache Cache, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func (r *CachedResolver) Resolve(ctx context.Context, guestID string) (*Profile, error) {
	if p, ok := r.cache.Get(ctx, guestID); ok {
		return p, nil
	}

	p, err := r.inner.Resolve(ctx, guestID)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, guestID, p, r.ttl)
	return p, nil
}

func (r *CachedResolver) ResolveBatch(ctx context.Context, guestIDs []string) (map[string]*Profile, error) {
	out := make(map[string]*Profile, len(guestIDs))

	var misses []string
	for _, id := range guestIDs {
		if _, seen := out[id]; seen {
			continue
		}
		if p, ok := r.cache.Get(ctx, id); ok {
			out[id] = p
		} else {
			misses = append(misses, id)
			out[id] = nil
		}
	}

	if len(misses) == 0 {
		return out, nil
	}

	resolved, err := r.inner.ResolveBatch(ctx, misses)
	if err != nil {
		// Cache hits already collected still count; the rest stay nil.
		return out, nil
	}
	for id, p := range resolved {
		out[id] = p
		r.cache.Set(ctx, id, p, r.ttl)
	}

	return out, nil
}

// Invalidate drops the cached profile for the guest. Profiles mutate only
// in the external directory, so nothing in this service triggers it today;
// it exists for operators and future directory change notifications, and
// otherwise stale entries simply age out at the TTL.
func (r *CachedResolver) Invalidate(ctx context.Context, guestID string) {
	r.cache.Invalidate(ctx, guestID)
}
