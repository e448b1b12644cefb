package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetBytes(ctx, "k", []byte("v"), time.Minute))

	b, ok, err := c.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)

	now = now.Add(2 * time.Minute)
	_, ok, err = c.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCacheNoExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewTTLCache()
	require.NoError(t, c.SetBytes(ctx, "k", []byte("v"), 0))

	c.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	_, ok, _ := c.GetBytes(ctx, "k")
	assert.True(t, ok)
}

func TestTTLCacheWriteSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetBytes(ctx, "forever", []byte("v"), 0))
	require.NoError(t, c.SetBytes(ctx, "long", []byte("v"), time.Hour))
	for i := 0; i < 1000; i++ {
		require.NoError(t, c.SetBytes(ctx, fmt.Sprintf("history:SYM%d:1y", i), []byte("v"), time.Second))
	}
	assert.Equal(t, 1002, c.Len())

	now = now.Add(time.Minute)
	require.NoError(t, c.SetBytes(ctx, "fresh", []byte("v"), time.Second))
	assert.Equal(t, 3, c.Len())

	now = now.Add(30 * time.Minute)
	require.NoError(t, c.SetBytes(ctx, "other", []byte("v"), time.Hour))
	assert.Equal(t, 3, c.Len())
	_, ok, _ := c.GetBytes(ctx, "long")
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	require.NoError(t, c.SetBytes(ctx, "last", []byte("v"), time.Hour))
	assert.Equal(t, 2, c.Len())
}

func TestTTLCacheCopiesValue(t *testing.T) {
	ctx := context.Background()
	c := NewTTLCache()
	v := []byte("abc")
	require.NoError(t, c.SetBytes(ctx, "k", v, time.Minute))
	v[0] = 'x'

	b, _, _ := c.GetBytes(ctx, "k")
	assert.Equal(t, "abc", string(b))
}

func TestNewBackends(t *testing.T) {
	c, err := New(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &TTLCache{}, c)

	c, err = New(Options{Backend: BackendNone})
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = New(Options{Backend: "memcached"})
	assert.Error(t, err)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(RedisConfig{Addr: addr, Prefix: "stockdash-test"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetBytes(ctx, "quote:AAPL", []byte(`{"x":1}`), time.Minute))
	b, ok, err := c.GetBytes(ctx, "quote:AAPL")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"x":1}`, string(b))

	_, ok, err = c.GetBytes(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
