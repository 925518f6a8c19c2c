package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize is the entry limit of a MemoryCache created with size 0.
const DefaultMemorySize = 1024

// MemoryCache is a bounded in-process cache. When full, the least recently
// used entry is evicted. It is safe for concurrent use.
//
// Entries are kept in one expirable LRU per distinct ttl, so each key
// family (layouts, artifacts) expires on its own schedule. Each lane holds
// at most size entries.
type MemoryCache struct {
	size   int
	closed atomic.Bool

	mu    sync.RWMutex
	lanes map[time.Duration]*expirable.LRU[string, []byte]
}

// NewMemoryCache creates an LRU cache holding at most size entries per ttl.
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryCache{size: size, lanes: make(map[time.Duration]*expirable.LRU[string, []byte])}, nil
}

// lane returns the LRU for ttl, creating it on first use.
func (c *MemoryCache) lane(ttl time.Duration) *expirable.LRU[string, []byte] {
	if ttl < 0 {
		ttl = 0
	}
	c.mu.RLock()
	l, ok := c.lanes[ttl]
	c.mu.RUnlock()
	if ok {
		return l
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok = c.lanes[ttl]; !ok {
		l = expirable.NewLRU[string, []byte](c.size, nil, ttl)
		c.lanes[ttl] = l
	}
	return l
}

func (c *MemoryCache) each(fn func(l *expirable.LRU[string, []byte]) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.lanes {
		if !fn(l) {
			return
		}
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	var data []byte
	var hit bool
	c.each(func(l *expirable.LRU[string, []byte]) bool {
		data, hit = l.Get(key)
		return !hit
	})
	return data, hit, nil
}

// Set stores a copy of data in the cache. A key set again with a different
// ttl moves to that ttl's lane.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	target := c.lane(ttl)
	c.each(func(l *expirable.LRU[string, []byte]) bool {
		if l != target {
			l.Remove(key)
		}
		return true
	})
	target.Add(key, append([]byte(nil), data...))
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.each(func(l *expirable.LRU[string, []byte]) bool {
		l.Remove(key)
		return true
	})
	return nil
}

// Len returns the number of stored entries. Expired entries count until
// the background sweep removes them.
func (c *MemoryCache) Len() int {
	n := 0
	c.each(func(l *expirable.LRU[string, []byte]) bool {
		n += l.Len()
		return true
	})
	return n
}

// Close drops all entries. Later calls to Get and Set return ErrClosed.
func (c *MemoryCache) Close() error {
	c.closed.Store(true)
	c.each(func(l *expirable.LRU[string, []byte]) bool {
		l.Purge()
		return true
	})
	return nil
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
