package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "brisa:access:version"

// Cache keeps flattened access profiles in Redis. Invalidation bumps a
// version counter baked into every key, so stale entries age out with their
// TTL instead of being deleted one by one.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached profile, with ok=false on miss or disabled cache.
func (c *Cache) Get(ctx context.Context, userID int64) (UserAccess, bool) {
	if c == nil || c.client == nil {
		return UserAccess{}, false
	}
	key, err := c.key(ctx, userID)
	if err != nil {
		return UserAccess{}, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return UserAccess{}, false
	}
	var access UserAccess
	if err := json.Unmarshal(data, &access); err != nil {
		return UserAccess{}, false
	}
	return access, true
}

// Put stores the profile under the current cache version.
func (c *Cache) Put(ctx context.Context, access UserAccess) error {
	if c == nil || c.client == nil {
		return nil
	}
	key, err := c.key(ctx, access.UserID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(access)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate drops every cached profile by bumping the version counter.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

func (c *Cache) key(ctx context.Context, userID int64) (string, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return "", err
		}
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("brisa:access:v%d:user:%d", ver, userID), nil
}
