package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	return NewRedisWithClient(client), srv
}

func TestRedisGetSet(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRedis(t)

	if _, ok, err := r.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := r.SetWithTTL(ctx, "k", []byte("value"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}

	val, ok, err := r.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || string(val) != "value" {
		t.Errorf("expected hit with 'value', got ok=%v val=%q", ok, val)
	}
}

func TestRedisTTLExpiry(t *testing.T) {
	ctx := context.Background()
	r, srv := newTestRedis(t)

	if err := r.SetWithTTL(ctx, "k", []byte("v"), 30*time.Second); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}

	srv.FastForward(31 * time.Second)

	if _, ok, _ := r.Get(ctx, "k"); ok {
		t.Error("expected miss after TTL elapsed")
	}
}

func TestRedisPing(t *testing.T) {
	ctx := context.Background()
	r, srv := newTestRedis(t)

	if err := r.Ping(ctx); err != nil {
		t.Errorf("ping against live server failed: %v", err)
	}

	srv.Close()
	if err := r.Ping(ctx); err == nil {
		t.Error("expected ping failure after server close")
	}
}
