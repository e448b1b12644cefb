// Package cache provides the byte caches behind the market data decorator.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Backends accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Redis   RedisConfig
}

// New builds the configured backend. BackendNone returns a nil cache.
func New(opts Options) (BytesCache, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewTTLCache(), nil
	case BackendRedis:
		rc, err := NewRedisCache(opts.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
