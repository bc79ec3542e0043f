package arxiv

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Cache is a read-through Redis cache for raw arXiv API responses, keyed
// by the canonical request query string. A cache miss or a Redis failure
// is never fatal; callers fall through to the upstream API.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheTTL sets the expiration for cached responses.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithCachePrefix sets the key prefix for cached responses.
func WithCachePrefix(prefix string) CacheOption {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// NewCache creates a cache backed by a Redis server at address.
func NewCache(address, password string, db int, opts ...CacheOption) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewCacheFromClient(rdb, opts...)
}

// NewCacheFromClient creates a cache from an existing client.
func NewCacheFromClient(client *backend.Client, opts ...CacheOption) *Cache {
	c := &Cache{
		client: client,
		prefix: "ponder:arxiv:",
		ttl:    15 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) key(query string) string {
	return c.prefix + query
}

// Get returns the cached response body for query, with a hit flag.
func (c *Cache) Get(ctx context.Context, query string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.key(query)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, true, nil
}

// Set stores a response body for query under the configured TTL.
func (c *Cache) Set(ctx context.Context, query string, body []byte) error {
	if err := c.client.Set(ctx, c.key(query), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Close closes the underlying redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
