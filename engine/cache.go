package engine

import (
	"sync"

	"github.com/nelhage/hexai/hex"
)

type cacheKey struct {
	hash uint64
	side hex.Side
}

// MoveCache remembers decisions by board fingerprint and side to move.
// When full it drops the older half of its entries.
type MoveCache struct {
	mu      sync.Mutex
	max     int
	entries map[cacheKey]hex.Move
	order   []cacheKey

	hits, misses int64
}

func NewMoveCache(max int) *MoveCache {
	if max < 1 {
		max = 1
	}
	return &MoveCache{
		max:     max,
		entries: make(map[cacheKey]hex.Move, max),
	}
}

func (c *MoveCache) Get(h uint64, side hex.Side) (hex.Move, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[cacheKey{h, side}]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return m, ok
}

func (c *MoveCache) Put(h uint64, side hex.Side, m hex.Move) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := cacheKey{h, side}
	if _, ok := c.entries[k]; ok {
		c.entries[k] = m
		return
	}
	if len(c.order) >= c.max {
		c.evict()
	}
	c.entries[k] = m
	c.order = append(c.order, k)
}

func (c *MoveCache) evict() {
	n := c.max / 2
	if n < 1 {
		n = 1
	}
	for _, k := range c.order[:n] {
		delete(c.entries, k)
	}
	c.order = append(c.order[:0], c.order[n:]...)
}

func (c *MoveCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MoveCache) Cap() int {
	return c.max
}

// Hits returns the lookup counters since the last Clear.
func (c *MoveCache) Hits() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *MoveCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]hex.Move, c.max)
	c.order = c.order[:0]
	c.hits, c.misses = 0, 0
}
