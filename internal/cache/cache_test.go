package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestCache(ttl time.Duration) (*Memory, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewMemory(ttl, WithClock(clk.Now)), clk
}

func TestMemory_SetGet(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("k", 42)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	c, clk := newTestCache(30 * time.Minute)
	c.Set("k", "v")

	clk.Advance(30 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry at exactly the TTL is still fresh")

	clk.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemory_SetResetsAge(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("k", 1)
	clk.Advance(50 * time.Second)
	c.Set("k", 2)
	clk.Advance(50 * time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMemory_Invalidate(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	c.Invalidate("never-set")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestMemory_InvalidateAllIdempotent(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.InvalidateAll()
	c.InvalidateAll()
	assert.Equal(t, 0, c.Len())
}

func TestNewMemory_DefaultTTL(t *testing.T) {
	c := NewMemory(0)
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestGetAs(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("s", []string{"x"})

	got, ok := GetAs[[]string](c, "s")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, got)

	_, ok = GetAs[int](c, "s")
	assert.False(t, ok)

	_, ok = GetAs[int](c, "missing")
	assert.False(t, ok)
}

func TestMemory_Concurrent(t *testing.T) {
	c := NewMemory(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			c.Set(key, i)
			c.Get(key)
			if i%10 == 0 {
				c.InvalidateAll()
			}
		}(i)
	}
	wg.Wait()
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.False(t, ok)
	c.Invalidate("k")
	c.InvalidateAll()
}
