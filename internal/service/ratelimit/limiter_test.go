package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesAndRefills(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))

	// other keys have their own bucket
	assert.True(t, l.Allow("5.6.7.8"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))

	// refill is capped at capacity
	now = now.Add(time.Hour)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestZeroRefillSpendsBurstOnly(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	l := New(1, 0)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("k"))
	now = now.Add(time.Hour)
	assert.False(t, l.Allow("k"))
}

func TestDisabled(t *testing.T) {
	for _, capacity := range []float64{0, 0.5, -1} {
		l := New(capacity, 0)
		assert.False(t, l.Enabled())
		for i := 0; i < 100; i++ {
			assert.True(t, l.Allow("k"))
		}
		assert.Equal(t, 0, l.Len())
	}
	var nilLimiter *Limiter
	assert.True(t, nilLimiter.Allow("k"))
	assert.Equal(t, 0, nilLimiter.Forget(time.Minute))
}

func TestForget(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	l := New(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(10 * time.Minute)
	l.Allow("b")

	assert.Equal(t, 1, l.Forget(5*time.Minute))
	assert.Equal(t, 1, l.Len())

	// a forgotten key starts with a full bucket again
	assert.True(t, l.Allow("a"))
}
