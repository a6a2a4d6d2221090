// ABOUTME: Tests for the TTL cache
// ABOUTME: Uses a fake clock for expiry instead of sleeping

package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(ttl time.Duration) (*Cache[string], *clock) {
	clk := &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	c := New[string](ttl, nil)
	c.now = clk.now
	return c, clk
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(time.Second)

	c.Set("key1", "value1")

	val, found := c.Get("key1")
	assert.True(t, found)
	assert.Equal(t, "value1", val)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestCache_Expiration(t *testing.T) {
	c, clk := newTestCache(100 * time.Millisecond)
	c.Set("key1", "value1")

	clk.advance(100 * time.Millisecond)
	_, found := c.Get("key1")
	assert.True(t, found, "entry lives through its TTL")

	clk.advance(time.Millisecond)
	_, found = c.Get("key1")
	assert.False(t, found)
}

func TestCache_SetWithTTL(t *testing.T) {
	c, clk := newTestCache(time.Second)
	c.SetWithTTL("short", "v", 10*time.Millisecond)
	c.Set("long", "v")

	clk.advance(50 * time.Millisecond)
	_, found := c.Get("short")
	assert.False(t, found)
	_, found = c.Get("long")
	assert.True(t, found)
}

func TestCache_SetSweepsExpired(t *testing.T) {
	c, clk := newTestCache(time.Second)
	c.Set("a", "1")
	c.Set("b", "2")

	clk.advance(2 * time.Second)
	c.Set("c", "3")

	count := 0
	c.store.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ClearAndPurge(t *testing.T) {
	c, _ := newTestCache(time.Second)
	c.Set("key1", "value1")
	c.Set("key2", "value2")

	c.Clear("key1")
	_, found := c.Get("key1")
	assert.False(t, found)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			c.Set(key, i)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}
