// Package cache provides a small string cache used for read-through caching
// of hot lookups. Misses are not errors.
package cache

import (
	"context"
	"time"
)

// Cache is a string key/value store with TTL. Get reports a miss via the
// second return value; errors indicate backend failures only.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Noop is a Cache that stores nothing. Used when no Redis URL is configured.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }

func (Noop) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }

func (Noop) Delete(ctx context.Context, key string) error { return nil }
