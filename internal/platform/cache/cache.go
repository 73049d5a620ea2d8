// Package cache provides a thin Redis-backed cache for read-mostly data
// such as antecedent form definitions. When no Redis URL is configured the
// cache is disabled and every call is a no-op miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent or the cache is disabled.
var ErrMiss = errors.New("cache: miss")

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis using the given URL. An empty URL returns a
// disabled cache rather than an error so callers can wire it
// unconditionally.
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	if redisURL == "" {
		return &Cache{ttl: ttl}, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Cache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis backend is configured.
func (c *Cache) Enabled() bool {
	return c.client != nil
}

// Ping verifies connectivity. Always nil when disabled.
func (c *Cache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// GetJSON loads the value under key into dest. Returns ErrMiss when the
// key is absent.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetJSON stores value under key with the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Delete removes keys, typically after a write invalidates them.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
