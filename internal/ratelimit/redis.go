package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// counterPrefix namespaces limiter keys in the shared store.
const counterPrefix = "rl:"

// Redis is a limiter backed by a shared Redis counter store. INCR is atomic
// with respect to concurrent callers on the same key, so no over-admission
// race exists across processes. Counters expire after one window.
type Redis struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
}

// NewRedis creates a shared-store limiter allowing maxRequests per window.
func NewRedis(client *redis.Client, maxRequests int, windowSize time.Duration) *Redis {
	return &Redis{
		client:      client,
		maxRequests: maxRequests,
		window:      windowSize,
	}
}

// Check implements Limiter.
func (r *Redis) Check(ctx context.Context, key string) error {
	bucket := counterPrefix + key

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}

	if incr.Val() > int64(r.maxRequests) {
		return ErrLimited
	}
	return nil
}

// Reset implements Limiter. Scanning is not efficient; provided for tests.
func (r *Redis) Reset(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, counterPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
