package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const ratelimitPrefix = "ratelimit:"

// RateLimitStore implements the fixed-window counter on Redis, for
// deployments that want rate-limit state shared across instances. INCR is
// atomic server-side, so concurrent requests for the same key serialize in
// Redis rather than in-process.
type RateLimitStore struct {
	client *redis.Client
}

func NewRateLimitStore(client *redis.Client) *RateLimitStore {
	return &RateLimitStore{client: client}
}

// Incr increments the window counter for key, starting the window (via
// EXPIRE) on the first hit, and returns the post-increment count with the
// time remaining until reset.
func (s *RateLimitStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	rkey := ratelimitPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, rkey)
	ttl := pipe.TTL(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	count := int(incr.Val())
	remaining := ttl.Val()
	// A fresh key (or one left over without an expiry) starts a new window.
	if remaining < 0 {
		if err := s.client.Expire(ctx, rkey, window).Err(); err != nil {
			return count, window, fmt.Errorf("rate limit expire: %w", err)
		}
		remaining = window
	}

	return count, remaining, nil
}
