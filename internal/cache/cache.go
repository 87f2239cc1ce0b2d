// Package cache provides a small TTL cache for short-lived results
package cache

import (
	"errors"
	"sync"
	"time"
)

var errLoadPanicked = errors.New("cache: load panicked")

// item wraps a cached value with its expiration time
type item[T any] struct {
	value     T
	expiresAt time.Time
}

// call is a load in progress; waiters block on done
type call[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Cache is a thread-safe map whose entries expire after a fixed TTL
type Cache[T any] struct {
	items    map[string]item[T]
	inflight map[string]*call[T]
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

// New creates a cache with the specified TTL. Expired entries are swept in
// the background until Close is called.
func New[T any](ttl time.Duration) *Cache[T] {
	c := newCache[T](ttl, time.Now)
	go c.sweep()
	return c
}

func newCache[T any](ttl time.Duration, now func() time.Time) *Cache[T] {
	return &Cache[T]{
		items:    make(map[string]item[T]),
		inflight: make(map[string]*call[T]),
		ttl:      ttl,
		now:      now,
		stop:     make(chan struct{}),
	}
}

// Get returns (value, true) if key is present and not expired
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, exists := c.items[key]
	if !exists || !c.now().Before(it.expiresAt) {
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set stores a value with the cache's TTL
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[T]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// GetOrLoad returns the cached value for key or stores the result of load.
// Concurrent callers missing the same key share a single load and its result.
// Errors are returned to every waiter and never cached.
func (c *Cache[T]) GetOrLoad(key string, load func() (T, error)) (T, error) {
	c.mu.Lock()
	if it, ok := c.items[key]; ok && c.now().Before(it.expiresAt) {
		c.mu.Unlock()
		return it.value, nil
	}
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-cl.done
		return cl.value, cl.err
	}
	cl := &call[T]{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	finished := false
	defer func() {
		if !finished {
			cl.err = errLoadPanicked
		}
		c.mu.Lock()
		delete(c.inflight, key)
		if cl.err == nil {
			c.items[key] = item[T]{value: cl.value, expiresAt: c.now().Add(c.ttl)}
		}
		c.mu.Unlock()
		close(cl.done)
	}()

	cl.value, cl.err = load()
	finished = true
	return cl.value, cl.err
}

// Size returns the number of items (including expired)
func (c *Cache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background sweep. Safe to call more than once.
func (c *Cache[T]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache[T]) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[T]) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, it := range c.items {
		if !now.Before(it.expiresAt) {
			delete(c.items, key)
		}
	}
}
