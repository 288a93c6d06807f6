// Package cache provides the shared Redis connection used for
// distributed rate-limit counters.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the Redis connection. Zero pool values fall back to
// defaults suitable for a single API instance.
type Options struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

// Cache wraps a Redis client with app-level connection settings.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, opts Options) (*Cache, error) {
	opt, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = opts.PoolSize
	if opt.PoolSize <= 0 {
		opt.PoolSize = 10
	}
	opt.MinIdleConns = opts.MinIdleConns
	if opt.MinIdleConns <= 0 {
		opt.MinIdleConns = 2
	}
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client for the rate limiter.
func (c *Cache) Client() *redis.Client {
	return c.client
}
