package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := NewMemoryCache(4)
	c.Set("backends", []string{"anthropic"}, time.Minute)

	v, ok := c.Get("backends")
	if !ok {
		t.Fatalf("expected hit")
	}
	if got := v.([]string); len(got) != 1 || got[0] != "anthropic" {
		t.Fatalf("unexpected value: %v", got)
	}
}

func TestExpiry(t *testing.T) {
	c := NewMemoryCache(4)
	c.Set("models", []string{"gpt-4o"}, -time.Second)

	if _, ok := c.Get("models"); ok {
		t.Fatalf("expired entry returned")
	}
	if got := c.Size(); got != 0 {
		t.Fatalf("expired entry not removed on read: size %d", got)
	}
}

func TestEvictionAtCapacity(t *testing.T) {
	c := NewMemoryCache(2)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Hour)
	c.Set("c", 3, time.Hour)

	if got := c.Size(); got != 2 {
		t.Fatalf("size = %d, want 2", got)
	}
	// The entry closest to expiry goes first.
	if _, ok := c.Get("a"); ok {
		t.Fatalf("oldest entry survived eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("newest entry evicted")
	}
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c := NewMemoryCache(2)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("a", 10, time.Minute)

	if got := c.Size(); got != 2 {
		t.Fatalf("size = %d, want 2", got)
	}
	v, ok := c.Get("a")
	if !ok || v.(int) != 10 {
		t.Fatalf("overwrite lost: %v ok=%v", v, ok)
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := NewMemoryCache(4)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("deleted entry returned")
	}

	c.Clear()
	if got := c.Size(); got != 0 {
		t.Fatalf("size after clear = %d", got)
	}
}
