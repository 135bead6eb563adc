// Package cache memoizes PAC evaluation results per target URL.
package cache

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/GriffinCanCode/pacd/internal/pac/directive"
)

// DefaultCapacity is the number of plans kept per evaluator
const DefaultCapacity = 100

var ErrInvalidCapacity = errors.New("cache capacity must be positive")

// Cache is a bounded memo from target URL to plan. It is safe for
// concurrent use. Lookups never refresh an entry, so eviction follows
// insertion order.
type Cache struct {
	entries  *lru.Cache[string, directive.Plan]
	capacity int
}

// New creates a cache holding at most capacity plans
func New(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	entries, err := lru.New[string, directive.Plan](capacity)
	if err != nil {
		return nil, err
	}

	return &Cache{entries: entries, capacity: capacity}, nil
}

// Get returns a copy of the cached plan for key
func (c *Cache) Get(key string) (directive.Plan, bool) {
	plan, ok := c.entries.Peek(key)
	if !ok {
		return nil, false
	}
	return plan.Clone(), true
}

// Put stores plan under key, evicting the oldest entry when full
func (c *Cache) Put(key string, plan directive.Plan) {
	c.entries.Add(key, plan.Clone())
}

// Len returns the number of cached plans
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Capacity returns the bound given at construction
func (c *Cache) Capacity() int {
	return c.capacity
}
