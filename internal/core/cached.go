package core

import (
	"context"
	"time"

	"github.com/llmwatch/console/internal/cache"
)

// CachedClient decorates a Client with short-lived caching of the backend
// and model option lists. Those change rarely but are re-read on every view
// render; everything else passes straight through.
type CachedClient struct {
	Client
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedClient wraps inner with an option-list cache.
func NewCachedClient(inner Client, c cache.Cache, ttl time.Duration) *CachedClient {
	return &CachedClient{Client: inner, cache: c, ttl: ttl}
}

func (c *CachedClient) Backends(ctx context.Context) ([]string, error) {
	return c.options(ctx, "backends", c.Client.Backends)
}

func (c *CachedClient) Models(ctx context.Context) ([]string, error) {
	return c.options(ctx, "models", c.Client.Models)
}

func (c *CachedClient) options(ctx context.Context, key string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	if v, ok := c.cache.Get(key); ok {
		if opts, ok := v.([]string); ok {
			return opts, nil
		}
	}

	opts, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, opts, c.ttl)
	return opts, nil
}
