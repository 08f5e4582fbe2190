// Package cache stores computed dashboards in Redis for a bounded time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rsu/internal/analytics"
)

const (
	dashboardKey = "rsu:analytics:dashboard"
	DefaultTTL   = 5 * time.Minute
)

// RedisCache is a cache-aside store for the dashboard.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a cache over client. A non-positive ttl uses DefaultTTL.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached dashboard. A miss is (nil, false, nil).
func (c *RedisCache) Get(ctx context.Context) (*analytics.Dashboard, bool, error) {
	raw, err := c.client.Get(ctx, dashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached dashboard: %w", err)
	}
	var d analytics.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("decode cached dashboard: %w", err)
	}
	return &d, true, nil
}

func (c *RedisCache) Set(ctx context.Context, d *analytics.Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache dashboard: %w", err)
	}
	return nil
}

// Invalidate drops the cached dashboard.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, dashboardKey).Err()
}
