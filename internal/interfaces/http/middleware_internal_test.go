package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time          { return c.t }
func (c *stepClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestIPLimiter_DescartaIPsInactivas(t *testing.T) {
	clock := &stepClock{t: time.Unix(1_700_000_000, 0)}
	lim := newIPLimiter(2, 10)
	lim.now = clock.Now

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.True(t, lim.allow(ip))
	}
	assert.Equal(t, 3, lim.tracked())

	clock.Advance(limiterIdleTTL / 2)
	assert.True(t, lim.allow("10.0.0.1"))
	assert.Equal(t, 3, lim.tracked(), "aún no vence el barrido")

	clock.Advance(limiterIdleTTL/2 + time.Second)
	assert.True(t, lim.allow("10.0.0.4"))
	assert.Equal(t, 2, lim.tracked(), "quedan la IP reciente y la nueva")
}

func TestIPLimiter_NoOlvidaAntesDeRellenarElBucket(t *testing.T) {
	clock := &stepClock{t: time.Unix(1_700_000_000, 0)}
	lim := newIPLimiter(0.001, 1)
	lim.now = clock.Now

	assert.True(t, lim.allow("10.0.0.1"))
	assert.False(t, lim.allow("10.0.0.1"))

	clock.Advance(limiterIdleTTL + time.Minute)
	assert.False(t, lim.allow("10.0.0.1"), "el bucket sigue vacío aunque pasó el TTL base")
	assert.Equal(t, 1, lim.tracked())
}
