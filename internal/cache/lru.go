package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/qfold/qfold/resource"
)

// Key identifies one cached block of one archive.
type Key struct {
	Archive string
	Block   uint64
}

// LRU is a byte-capped block cache. Returned slices are shared and must be
// treated as read-only by callers.
type LRU struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	items    map[Key]*list.Element
	order    *list.List
	rc       *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   Key
	value []byte
}

// NewLRU creates a cache holding at most capacity bytes. If rc is non-nil,
// held bytes are reserved against it and blocks are dropped instead of
// cached when the reservation fails.
func NewLRU(capacity int64, rc *resource.Controller) *LRU {
	return &LRU{
		capacity: capacity,
		items:    make(map[Key]*list.Element),
		order:    list.New(),
		rc:       rc,
	}
}

// Get returns a cached block and marks it most recently used.
func (c *LRU) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.order.MoveToFront(el)
		return el.Value.(*entry).value, true
	}

	c.misses.Add(1)
	return nil, false
}

// Set caches a block, evicting least recently used blocks to stay under
// the byte capacity. Oversized blocks and blocks denied by the resource
// controller are not cached.
func (c *LRU) Set(key Key, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		c.replace(el.Value.(*entry), b)
		return
	}

	itemSize := int64(len(b))
	if itemSize > c.capacity {
		return
	}

	for c.size+itemSize > c.capacity {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.remove(back)
	}

	if c.rc.TryAcquireMemory(itemSize) != nil {
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, value: b})
	c.size += itemSize
}

func (c *LRU) replace(ent *entry, b []byte) {
	oldSize := int64(len(ent.value))
	newSize := int64(len(b))

	if newSize > oldSize {
		if c.rc.TryAcquireMemory(newSize-oldSize) != nil {
			return
		}
	} else if newSize < oldSize {
		c.rc.ReleaseMemory(oldSize - newSize)
	}

	ent.value = b
	c.size += newSize - oldSize
}

// InvalidateArchive drops every cached block of the named archive.
func (c *LRU) InvalidateArchive(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stale []*list.Element
	for key, el := range c.items {
		if key.Archive == name {
			stale = append(stale, el)
		}
	}

	for _, el := range stale {
		c.remove(el)
	}
}

// remove drops the element. Caller holds the lock.
func (c *LRU) remove(el *list.Element) {
	ent := el.Value.(*entry)

	c.order.Remove(el)
	delete(c.items, ent.key)
	c.size -= int64(len(ent.value))
	c.rc.ReleaseMemory(int64(len(ent.value)))
}

// Len returns the number of cached blocks.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// SizeBytes returns the held bytes.
func (c *LRU) SizeBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns hit and miss counts.
func (c *LRU) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close drops all blocks and returns their memory reservations.
func (c *LRU) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.order.Back() != nil {
		c.remove(c.order.Back())
	}
	return nil
}
