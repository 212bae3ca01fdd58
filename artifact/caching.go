package artifact

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// Caching wraps a Store and keeps recently opened artifacts in a bounded
// in-memory LRU. Use it in front of remote stores when the same snapshot is
// loaded repeatedly, e.g. by a fleet of inference workers.
type Caching struct {
	inner Store

	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	name string
	data []byte
}

// NewCaching creates a new caching store with the given capacity in bytes.
// capacity defaults to 64MB if <= 0.
func NewCaching(inner Store, capacity int64) *Caching {
	if capacity <= 0 {
		capacity = 64 * 1024 * 1024
	}

	return &Caching{
		inner:     inner,
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Open returns the cached artifact or reads it from the inner store.
func (c *Caching) Open(ctx context.Context, name string) ([]byte, error) {
	c.mu.Lock()
	if ent, ok := c.items[name]; ok {
		c.evictList.MoveToFront(ent)
		data := ent.Value.(*cacheEntry).data
		copied := make([]byte, len(data))
		copy(copied, data)
		c.mu.Unlock()

		c.hits.Add(1)
		return copied, nil
	}
	c.mu.Unlock()

	c.misses.Add(1)

	data, err := c.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	c.add(name, data)

	return data, nil
}

// Put writes through to the inner store and invalidates the cached copy.
func (c *Caching) Put(ctx context.Context, name string, data []byte) error {
	c.invalidate(name)
	return c.inner.Put(ctx, name, data)
}

// Delete removes the artifact from the inner store and the cache.
func (c *Caching) Delete(ctx context.Context, name string) error {
	c.invalidate(name)
	return c.inner.Delete(ctx, name)
}

// List is a pass-through to the inner store.
func (c *Caching) List(ctx context.Context, prefix string) ([]string, error) {
	return c.inner.List(ctx, prefix)
}

// Stats returns cache hit and miss counts.
func (c *Caching) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Caching) add(name string, data []byte) {
	itemSize := int64(len(data))

	// Artifacts larger than the whole cache are not cached.
	if itemSize > c.capacity {
		return
	}

	// Copy so the cache never shares bytes with callers.
	copied := make([]byte, len(data))
	copy(copied, data)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[name]; ok {
		c.size += itemSize - int64(len(ent.Value.(*cacheEntry).data))
		ent.Value.(*cacheEntry).data = copied
		c.evictList.MoveToFront(ent)
	} else {
		ent := c.evictList.PushFront(&cacheEntry{name: name, data: copied})
		c.items[name] = ent
		c.size += itemSize
	}

	for c.size > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}
}

func (c *Caching) invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[name]; ok {
		c.removeElement(ent)
	}
}

func (c *Caching) removeElement(ent *list.Element) {
	c.evictList.Remove(ent)
	e := ent.Value.(*cacheEntry)
	delete(c.items, e.name)
	c.size -= int64(len(e.data))
}
