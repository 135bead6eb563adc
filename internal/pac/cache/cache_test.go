package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/pacd/internal/pac/directive"
)

func proxyPlan(host string) directive.Plan {
	return directive.Plan{{Kind: directive.HTTP, Host: host, Port: 8080}}
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		c, err := New(capacity)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
		assert.Nil(t, c)
	}
}

func TestGetMiss(t *testing.T) {
	c, err := New(DefaultCapacity)
	require.NoError(t, err)

	plan, ok := c.Get("http://example.com/")
	assert.False(t, ok)
	assert.Nil(t, plan)
	assert.Equal(t, 0, c.Len())
}

func TestPutThenGet(t *testing.T) {
	c, err := New(DefaultCapacity)
	require.NoError(t, err)

	c.Put("http://example.com/?q=1", proxyPlan("a"))

	plan, ok := c.Get("http://example.com/?q=1")
	require.True(t, ok)
	assert.Equal(t, proxyPlan("a"), plan)

	_, ok = c.Get("http://example.com/?q=2")
	assert.False(t, ok)
}

func TestEvictsOldestInserted(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Put("a", proxyPlan("a"))
	c.Put("b", proxyPlan("b"))

	// Reading "a" must not protect it from eviction
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", proxyPlan("c"))

	_, ok = c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Capacity())
}

func TestReturnedPlansAreCopies(t *testing.T) {
	c, err := New(1)
	require.NoError(t, err)

	stored := proxyPlan("a")
	c.Put("k", stored)
	stored[0].Host = "mutated"

	got, _ := c.Get("k")
	got[0].Port = 1

	again, _ := c.Get("k")
	assert.Equal(t, proxyPlan("a"), again)
}

func TestConcurrentAccess(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (i+j)%20)
				c.Put(key, proxyPlan(key))
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 10)
}
