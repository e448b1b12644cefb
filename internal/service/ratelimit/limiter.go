// Package ratelimit keeps one token bucket per client key.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu     sync.Mutex
	m      map[string]*bucket
	burst  int
	refill rate.Limit
	now    func() time.Time
}

// New returns a limiter whose buckets hold capacity tokens and refill at
// refillPerSec. A capacity below one disables limiting.
func New(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		m:      make(map[string]*bucket),
		burst:  int(math.Floor(capacity)),
		refill: rate.Limit(refillPerSec),
		now:    time.Now,
	}
}

// Enabled reports whether the limiter rejects anything at all.
func (l *Limiter) Enabled() bool { return l != nil && l.burst > 0 }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}
	now := l.now()

	l.mu.Lock()
	b, ok := l.m[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.refill, l.burst)}
		l.m[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.lim.AllowN(now, 1)
}

// Forget drops buckets that have not been used for at least idle.
func (l *Limiter) Forget(idle time.Duration) int {
	if !l.Enabled() {
		return 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for k, b := range l.m {
		if now.Sub(b.lastSeen) >= idle {
			delete(l.m, k)
			n++
		}
	}
	return n
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
