package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimitStore_CountsWithinWindow(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRateLimitStore(client)

	for want := 1; want <= 3; want++ {
		count, remaining, err := store.Incr(context.Background(), "client|route", time.Minute)
		if err != nil {
			t.Fatalf("Incr #%d: %v", want, err)
		}
		if count != want {
			t.Fatalf("Incr #%d: count = %d", want, count)
		}
		if remaining <= 0 || remaining > time.Minute {
			t.Fatalf("Incr #%d: remaining out of range: %v", want, remaining)
		}
	}
}

func TestRateLimitStore_WindowReset(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRateLimitStore(client)

	if _, _, err := store.Incr(context.Background(), "k", time.Minute); err != nil {
		t.Fatalf("Incr: %v", err)
	}

	mr.FastForward(time.Minute + time.Second)

	count, _, err := store.Incr(context.Background(), "k", time.Minute)
	if err != nil {
		t.Fatalf("Incr after expiry: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected fresh window, got count %d", count)
	}
}

func TestRateLimitStore_KeysIndependent(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRateLimitStore(client)

	if _, _, err := store.Incr(context.Background(), "a|r", time.Minute); err != nil {
		t.Fatalf("Incr a: %v", err)
	}
	count, _, err := store.Incr(context.Background(), "b|r", time.Minute)
	if err != nil {
		t.Fatalf("Incr b: %v", err)
	}
	if count != 1 {
		t.Fatalf("keys must not share counters, got %d", count)
	}
}
