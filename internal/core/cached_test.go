package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/llmwatch/console/internal/cache"
)

type countingClient struct {
	Client
	backends      []string
	backendsErr   error
	backendsCalls int
	modelsCalls   int
}

func (c *countingClient) Backends(context.Context) ([]string, error) {
	c.backendsCalls++
	return c.backends, c.backendsErr
}

func (c *countingClient) Models(context.Context) ([]string, error) {
	c.modelsCalls++
	return []string{"claude-sonnet-4"}, nil
}

func TestCachedClientServesOptionsFromCache(t *testing.T) {
	inner := &countingClient{backends: []string{"anthropic", "openai"}}
	client := NewCachedClient(inner, cache.NewMemoryCache(4), time.Minute)

	for i := 0; i < 3; i++ {
		backends, err := client.Backends(context.Background())
		if err != nil {
			t.Fatalf("backends: %v", err)
		}
		if len(backends) != 2 {
			t.Fatalf("backends = %v", backends)
		}
	}
	if inner.backendsCalls != 1 {
		t.Fatalf("backends fetched %d times, want 1", inner.backendsCalls)
	}

	client.Models(context.Background())
	client.Models(context.Background())
	if inner.modelsCalls != 1 {
		t.Fatalf("models fetched %d times, want 1", inner.modelsCalls)
	}
}

func TestCachedClientDoesNotCacheFailures(t *testing.T) {
	inner := &countingClient{backendsErr: errors.New("core down")}
	client := NewCachedClient(inner, cache.NewMemoryCache(4), time.Minute)

	if _, err := client.Backends(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	inner.backendsErr = nil
	inner.backends = []string{"anthropic"}
	backends, err := client.Backends(context.Background())
	if err != nil || len(backends) != 1 {
		t.Fatalf("recovery fetch = %v, %v", backends, err)
	}
	if inner.backendsCalls != 2 {
		t.Fatalf("backends fetched %d times, want 2", inner.backendsCalls)
	}
}

func TestCachedClientExpiredEntryRefetches(t *testing.T) {
	inner := &countingClient{backends: []string{"anthropic"}}
	client := NewCachedClient(inner, cache.NewMemoryCache(4), -time.Second)

	client.Backends(context.Background())
	client.Backends(context.Background())
	if inner.backendsCalls != 2 {
		t.Fatalf("expired entries not refetched: %d calls", inner.backendsCalls)
	}
}
