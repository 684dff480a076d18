package cache

import (
	"context"
	"time"
)

// Compile-time checks that every backend satisfies Cache.
var (
	_ Cache = (*NullCache)(nil)
	_ Cache = (*FileCache)(nil)
	_ Cache = (*RedisCache)(nil)
)

// NullCache never stores anything. The CLI uses it for --no-cache and the
// runner falls back to it when no cache is configured.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() *NullCache {
	return &NullCache{}
}

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (*NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (*NullCache) Close() error { return nil }
