package batch

import (
	"container/list"
	"sync"
	"time"

	"chunkforge.dev/internal/engine/chunk"
	"chunkforge.dev/internal/engine/tuning"
)

// StatsEntry is the cached derivation for one chunk content value.
type StatsEntry struct {
	Blocks  BlockStats
	Heights HeightStats
}

type cacheItem struct {
	key     [32]byte
	val     StatsEntry
	expires time.Time
}

// StatsCache memoizes block and height statistics keyed by chunk content,
// never by reference, so a hit is indistinguishable from recomputation.
// Entries expire after a TTL and the least recently used entry is evicted
// once the capacity bound is reached.
type StatsCache struct {
	ttl time.Duration
	cap int
	now func() time.Time

	mu    sync.Mutex
	ll    *list.List // front is most recently used
	items map[[32]byte]*list.Element
}

func NewStatsCache(cfg tuning.StatsCache) *StatsCache {
	ttl := time.Duration(cfg.TTLMs) * time.Millisecond
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 128
	}
	return &StatsCache{
		ttl:   ttl,
		cap:   capacity,
		now:   time.Now,
		ll:    list.New(),
		items: make(map[[32]byte]*list.Element),
	}
}

// Stats returns the cached statistics for d's content, computing and storing
// them on a miss or an expired entry.
func (c *StatsCache) Stats(d chunk.Data) StatsEntry {
	key := d.ContentKey()

	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		it := el.Value.(*cacheItem)
		if c.now().Before(it.expires) {
			c.ll.MoveToFront(el)
			val := it.val
			c.mu.Unlock()
			return val
		}
		c.ll.Remove(el)
		delete(c.items, key)
	}
	c.mu.Unlock()

	val := StatsEntry{
		Blocks:  ComputeBlockStats(d),
		Heights: ComputeHeightStats(d),
	}

	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		// Lost a race to another computation of the same content; both
		// results are equal by construction.
		el.Value.(*cacheItem).expires = c.now().Add(c.ttl)
		c.ll.MoveToFront(el)
	} else {
		el := c.ll.PushFront(&cacheItem{key: key, val: val, expires: c.now().Add(c.ttl)})
		c.items[key] = el
		for len(c.items) > c.cap {
			oldest := c.ll.Back()
			if oldest == nil {
				break
			}
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheItem).key)
		}
	}
	c.mu.Unlock()
	return val
}

// Len reports the live entry count.
func (c *StatsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Contains reports whether d's content currently has a live cache entry.
func (c *StatsCache) Contains(d chunk.Data) bool {
	key := d.ContentKey()
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	return ok && c.now().Before(el.Value.(*cacheItem).expires)
}
