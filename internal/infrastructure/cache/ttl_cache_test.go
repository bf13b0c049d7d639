package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewTTLCache[[]string](time.Minute)

	_, ok := c.Get("currencies", now)
	assert.False(t, ok)

	c.Put("currencies", []string{"BTC", "USDT"}, now)

	got, ok := c.Get("currencies", now.Add(59*time.Second))
	assert.True(t, ok)
	assert.Equal(t, []string{"BTC", "USDT"}, got)

	_, ok = c.Get("currencies", now.Add(time.Minute))
	assert.False(t, ok, "entry expires exactly at ttl")

	c.Put("currencies", []string{"ETH"}, now)
	c.Invalidate("currencies")
	_, ok = c.Get("currencies", now)
	assert.False(t, ok)
}

func TestTTLCache_ZeroTTLDisables(t *testing.T) {
	now := time.Now()
	c := NewTTLCache[int](0)
	c.Put("k", 1, now)
	_, ok := c.Get("k", now)
	assert.False(t, ok)
}
