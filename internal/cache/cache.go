// Package cache keeps time-bounded copies of remote listings so the API does
// not hit the database on every read. Mutations invalidate; a ticker refreshes.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the staleness window used when none is configured.
const DefaultTTL = 5 * time.Minute

// Loader fetches a fresh value from the backing store.
type Loader[T any] func(ctx context.Context) (T, error)

// Invalidator is the part of a cache mutating services depend on.
type Invalidator interface {
	Invalidate()
}

// Cache holds one loaded value of T.
type Cache[T any] struct {
	name string
	load Loader[T]
	ttl  time.Duration
	log  logrus.FieldLogger
	now  func() time.Time

	mu       sync.RWMutex
	value    T
	loadedAt time.Time
	valid    bool
	gen      uint64

	group singleflight.Group
}

// New returns an empty cache that loads with load and serves values for ttl.
func New[T any](name string, load Loader[T], ttl time.Duration, log logrus.FieldLogger) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{name: name, load: load, ttl: ttl, log: log, now: time.Now}
}

// Get returns the cached value while it is fresh and loads it otherwise.
// Concurrent callers share a single load.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.RLock()
	if c.valid && c.now().Sub(c.loadedAt) < c.ttl {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()
	return c.fetch(ctx)
}

// Invalidate drops the cached value. A load already in flight will not
// repopulate the cache.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	var zero T
	c.value = zero
	c.valid = false
	c.gen++
	c.mu.Unlock()
}

// Refresh reloads unconditionally and overwrites the cached value on success.
func (c *Cache[T]) Refresh(ctx context.Context) (T, error) {
	return c.fetch(ctx)
}

// Run refreshes the cache every interval until ctx is done. A failed refresh
// is logged and the previous value is kept.
func (c *Cache[T]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.fetch(ctx); err != nil && ctx.Err() == nil {
				c.log.WithError(err).WithField("cache", c.name).Warn("background refresh failed")
			}
		}
	}
}

// fetch joins or starts the load for the current generation. The load runs
// detached from the caller's cancellation; each caller stops waiting when its
// own ctx is done.
func (c *Cache[T]) fetch(ctx context.Context) (T, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		val, err := c.load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.value = val
			c.loadedAt = c.now()
			c.valid = true
		}
		c.mu.Unlock()
		return val, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		val, _ := res.Val.(T)
		return val, nil
	}
}
