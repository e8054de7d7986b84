package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, _ := m.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}

	if err := m.SetWithTTL(ctx, "k", []byte("value"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}

	val, ok, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(val) != "value" {
		t.Errorf("expected 'value', got %q", val)
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	current := time.Now()
	m.now = func() time.Time { return current }

	if err := m.SetWithTTL(ctx, "k", []byte("v"), 30*time.Second); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}

	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	// Advance past the TTL
	current = current.Add(31 * time.Second)

	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("expected miss after TTL elapsed")
	}
	if m.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, got %d entries", m.Len())
	}
}

func TestMemoryValueIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	src := []byte("original")
	if err := m.SetWithTTL(ctx, "k", src, time.Minute); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}
	src[0] = 'X'

	val, ok, _ := m.Get(ctx, "k")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(val) != "original" {
		t.Errorf("stored value was mutated through caller slice: %q", val)
	}

	// Mutating the returned slice must not affect a later read
	val[0] = 'Y'
	again, _, _ := m.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("stored value was mutated through returned slice: %q", again)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = m.SetWithTTL(ctx, "shared", []byte("v"), time.Minute)
				_, _, _ = m.Get(ctx, "shared")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestKeyDeterminism(t *testing.T) {
	a := Key("analysis", "resume text", "general", "job text")
	b := Key("analysis", "resume text", "general", "job text")
	if a != b {
		t.Errorf("identical inputs produced different keys: %s vs %s", a, b)
	}

	c := Key("analysis", "resume text", "ats", "job text")
	if a == c {
		t.Error("different analysis types produced the same key")
	}

	// Joining must not be ambiguous across part boundaries
	d := Key("analysis", "ab", "c")
	e := Key("analysis", "a", "bc")
	if d == e {
		t.Error("part boundary ambiguity in cache key")
	}
}
