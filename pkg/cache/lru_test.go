package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/cache"
)

func TestLRUCache_PutGet(t *testing.T) {
	c := cache.NewLRUCache[string, int](3)

	c.Put("a", 1)
	old, existed := c.Put("a", 2)
	assert.True(t, existed)
	assert.Equal(t, 1, old)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := cache.NewLRUCache[string, int](2)

	var evicted []string
	c.SetEvictCallback(func(key string, _ int) { evicted = append(evicted, key) })

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, []string{"c", "a"}, c.Keys())

	v, existed := c.Remove("a")
	assert.True(t, existed)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"b", "a"}, evicted)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, []string{"b", "a", "c"}, evicted)
}

func TestLRUCache_PanicsOnInvalidCapacity(t *testing.T) {
	assert.Panics(t, func() { cache.NewLRUCache[string, int](0) })
	assert.Panics(t, func() { cache.NewLRUCache[string, int](-1) })
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := cache.NewLRUCache[int, int](50)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put(i, i)
			c.Get(i)
			c.GetOrCreate(i+1000, func() int { return i })
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
}

func TestLRUCache_GetOrCreate(t *testing.T) {
	c := cache.NewLRUCache[string, int](2)

	calls := 0
	create := func() int { calls++; return calls }

	v, created := c.GetOrCreate("a", create)
	assert.True(t, created)
	assert.Equal(t, 1, v)

	v, created = c.GetOrCreate("a", create)
	assert.False(t, created)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, calls)

	c.GetOrCreate("b", create)
	c.GetOrCreate("c", create)
	assert.Equal(t, []string{"c", "b"}, c.Keys())
}

func TestLRUCache_PeekKeepsRecency(t *testing.T) {
	c := cache.NewLRUCache[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Peek("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("c", 3)
	_, ok = c.Get("a")
	assert.False(t, ok, "peek must not refresh recency")
}
