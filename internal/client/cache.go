package client

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key builds a query key such as "sessions/learner" from its segments.
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// QueryCache holds decoded read results by query key. Concurrent fetches of
// the same key share one request; Invalidate drops a key and everything below it.
type QueryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	gen     map[string]uint64
	group   singleflight.Group
	now     func() time.Time
}

func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		gen:     make(map[string]uint64),
		now:     time.Now,
	}
}

func (c *QueryCache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *QueryCache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[key]
}

// set stores value unless key was invalidated since gen was read, so a fetch
// that raced a mutation does not repopulate stale data.
func (c *QueryCache) set(key string, gen uint64, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[key] != gen {
		return
	}
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate removes every entry whose key equals one of keys or starts with
// it followed by "/".
func (c *QueryCache) Invalidate(keys ...string) {
	c.mu.Lock()
	var dropped []string
	for _, prefix := range keys {
		for k := range c.entries {
			if matchesPrefix(k, prefix) {
				delete(c.entries, k)
			}
		}
		for k := range c.gen {
			if matchesPrefix(k, prefix) {
				c.gen[k]++
				dropped = append(dropped, k)
			}
		}
	}
	c.mu.Unlock()

	for _, k := range dropped {
		c.group.Forget(k)
	}
}

// Has reports whether a fresh entry exists for key.
func (c *QueryCache) Has(key string) bool {
	_, ok := c.get(key)
	return ok
}

func matchesPrefix(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}

func (c *QueryCache) track(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.gen[key]; !ok {
		c.gen[key] = 0
	}
	return c.gen[key]
}

// Query returns the cached value for key or loads it with fetch. Slices and
// pointers are copied one level deep, so callers may modify what they get
// without touching the cache.
func Query[T any](ctx context.Context, c *QueryCache, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		return detach(v).(T), nil
	}
	return load(ctx, c, key, fetch)
}

// Refetch always loads key with fetch and replaces the cached value.
func Refetch[T any](ctx context.Context, c *QueryCache, key string, fetch func(context.Context) (T, error)) (T, error) {
	return load(ctx, c, key, fetch)
}

// load joins or starts the shared fetch for key. The fetch itself is not
// cancelled with any one caller; each caller stops waiting when its own ctx
// is done.
func load[T any](ctx context.Context, c *QueryCache, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	gen := c.track(key)
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		value, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		c.set(key, gen, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return detach(res.Val).(T), nil
	}
}

// detach returns a shallow copy of slice and pointer values.
func detach(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(cp, rv)
		return cp.Interface()
	case reflect.Ptr:
		if rv.IsNil() {
			return v
		}
		cp := reflect.New(rv.Type().Elem())
		cp.Elem().Set(rv.Elem())
		return cp.Interface()
	}
	return v
}
