package ratelimit

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is how long until the current window resets. Only
	// meaningful when Allowed is false.
	RetryAfter time.Duration
}

// Store counts requests per key within fixed windows. Incr atomically
// increments the counter for key, starting a fresh window when none is
// active, and returns the post-increment count plus the time left in the
// window. Allowed and denied requests do identical bookkeeping: one Incr.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int, remaining time.Duration, err error)
}

// Limiter applies a Policy per route over a Store.
type Limiter struct {
	store Store
}

func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow checks the (clientKey, routeKey) budget against policy. A zero
// policy always allows. Store errors fail open: throttling is protective,
// not load-bearing, and a broken counter store must not take the API down.
func (l *Limiter) Allow(ctx context.Context, clientKey, routeKey string, policy Policy) (Decision, error) {
	if policy.Zero() {
		return Decision{Allowed: true}, nil
	}

	count, remaining, err := l.store.Incr(ctx, clientKey+"|"+routeKey, policy.Window)
	if err != nil {
		return Decision{Allowed: true, Limit: policy.Limit}, err
	}

	d := Decision{Limit: policy.Limit}
	if count > policy.Limit {
		d.RetryAfter = remaining
		return d, nil
	}

	d.Allowed = true
	d.Remaining = policy.Limit - count
	return d, nil
}

const memoryShards = 32

type bucket struct {
	windowStart time.Time
	count       int
}

type memoryShard struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	// next opportunistic sweep of expired buckets
	nextSweep time.Time
}

// MemoryStore is the default in-process Store: a sharded bucket map with a
// mutex per shard, so the read-modify-write on one key is serialized while
// distinct keys on different shards proceed in parallel. Stale buckets are
// swept lazily whenever a shard is touched past its sweep deadline.
type MemoryStore struct {
	shards [memoryShards]memoryShard
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for i := range s.shards {
		s.shards[i].buckets = make(map[string]*bucket)
	}
	return s
}

const sweepInterval = 5 * time.Minute

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	shard := &s.shards[s.shardIndex(key)]
	now := s.now()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	b := shard.buckets[key]
	if b == nil || now.Sub(b.windowStart) >= window {
		b = &bucket{windowStart: now}
		shard.buckets[key] = b
	}
	b.count++

	if now.After(shard.nextSweep) {
		s.sweepLocked(shard, now, window)
		shard.nextSweep = now.Add(sweepInterval)
	}

	return b.count, window - now.Sub(b.windowStart), nil
}

// sweepLocked drops buckets whose window has long elapsed. Caller holds the
// shard mutex.
func (s *MemoryStore) sweepLocked(shard *memoryShard, now time.Time, window time.Duration) {
	for key, b := range shard.buckets {
		if now.Sub(b.windowStart) >= 2*window {
			delete(shard.buckets, key)
		}
	}
}

func (s *MemoryStore) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % memoryShards
}
