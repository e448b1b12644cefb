package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	v   []byte
	exp time.Time
}

// TTLCache is an in-process BytesCache. Expired entries are dropped on read
// and swept on write once the earliest expiry has passed.
type TTLCache struct {
	mu      sync.RWMutex
	m       map[string]entry
	nextExp time.Time
	now     func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry), now: time.Now}
}

func (c *TTLCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.mu.Lock()
		// re-check, a writer may have refreshed it
		if cur, ok := c.m[key]; ok && cur.exp.Equal(e.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

// SetBytes stores a copy of value. A non-positive ttl never expires.
func (c *TTLCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := c.now()
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	b := make([]byte, len(value))
	copy(b, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.nextExp.IsZero() && now.After(c.nextExp) {
		c.sweep(now)
	}
	c.m[key] = entry{v: b, exp: exp}
	if !exp.IsZero() && (c.nextExp.IsZero() || exp.Before(c.nextExp)) {
		c.nextExp = exp
	}
	return nil
}

// sweep drops expired entries and recomputes the earliest expiry.
// c.mu must be held.
func (c *TTLCache) sweep(now time.Time) {
	c.nextExp = time.Time{}
	for k, e := range c.m {
		if e.exp.IsZero() {
			continue
		}
		if now.After(e.exp) {
			delete(c.m, k)
			continue
		}
		if c.nextExp.IsZero() || e.exp.Before(c.nextExp) {
			c.nextExp = e.exp
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
