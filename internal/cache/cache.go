// Package cache memoizes backend reads for a short TTL and drops them when a
// write makes them stale.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Resource names a family of cached reads.
type Resource string

const (
	ResourceProducts    Resource = "products"
	ResourceProduct     Resource = "product"
	ResourceFeatured    Resource = "featured"
	ResourceProfile     Resource = "profile"
	ResourceMyOrders    Resource = "my-orders"
	ResourceOrder       Resource = "order"
	ResourceAdminOrders Resource = "admin-orders"
	ResourceStats       Resource = "stats"
)

// ScopeAdmin is the scope shared by admin-only reads.
const ScopeAdmin = "admin"

// Key identifies one cached read. Scope separates per-visitor data
// (profile, my-orders) and is empty for public reads.
type Key struct {
	Resource Resource
	Scope    string
	ID       string
}

func (k Key) String() string {
	return string(k.Resource) + "|" + k.Scope + "|" + k.ID
}

type entry struct {
	value   any
	expires time.Time
}

// Cache is an in-memory TTL cache. A TTL of zero disables storage but keeps
// concurrent loads de-duplicated.
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu         sync.Mutex
	entries    map[Key]entry
	generation map[Resource]uint64
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:        ttl,
		now:        time.Now,
		entries:    make(map[Key]entry),
		generation: make(map[Resource]uint64),
	}
}

// GetOrLoad returns the cached value for key or calls load. Concurrent
// callers for the same key share one load. A load that races with an
// invalidation of its resource is returned but not stored.
func GetOrLoad[T any](ctx context.Context, c *Cache, key Key, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		return v.(T), nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		gen := c.gen(key.Resource)
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.put(key, v, gen)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *Cache) get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) gen(r Resource) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation[r]
}

func (c *Cache) put(key Key, v any, gen uint64) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation[key.Resource] != gen {
		return
	}
	c.entries[key] = entry{value: v, expires: c.now().Add(c.ttl)}
}

// Invalidate drops the reads the mutation makes stale. scope is the
// visitor id the mutation was made for; rules that are not scoped ignore it.
func (c *Cache) Invalidate(m Mutation, scope string) {
	rules := Invalidations[m]
	if len(rules) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rule := range rules {
		c.generation[rule.Resource]++
		for k := range c.entries {
			if k.Resource != rule.Resource {
				continue
			}
			if rule.Scoped && k.Scope != scope {
				continue
			}
			delete(c.entries, k)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
