package oracle

import (
	"context"
	"sync"
	"sync/atomic"
)

// Cache is an unbounded per-invocation query cache. The engine wraps
// the caller's oracle in one of these for the duration of a single
// invocation, which is sound because oracles are required to be
// referentially stable within one call. Keys are stored in a trie on
// the event values themselves, so no string encoding of sequences is
// needed. Safe for concurrent use.
type Cache[E comparable] struct {
	inner Oracle[E]
	mu    sync.RWMutex
	root  cacheNode[E]
	calls atomic.Int64
}

type cacheNode[E comparable] struct {
	children map[E]*cacheNode[E]
	causes   []E
	filled   bool
}

// NewCache wraps o in a fresh cache
func NewCache[E comparable](o Oracle[E]) *Cache[E] {
	return &Cache[E]{inner: o}
}

// Calls reports how many queries reached the underlying oracle
func (c *Cache[E]) Calls() int64 { return c.calls.Load() }

// Causes implements Oracle
func (c *Cache[E]) Causes(ctx context.Context, effects []E) ([]E, error) {
	c.mu.RLock()
	node := &c.root
	ok := true
	for _, e := range effects {
		next := node.children[e]
		if next == nil {
			ok = false
			break
		}
		node = next
	}
	if ok && node.filled {
		causes := node.causes
		c.mu.RUnlock()
		return causes, nil
	}
	c.mu.RUnlock()

	c.calls.Add(1)
	causes, err := c.inner.Causes(ctx, effects)
	if err != nil {
		return nil, &Error[E]{Query: effects, Err: err}
	}

	c.mu.Lock()
	node = &c.root
	for _, e := range effects {
		if node.children == nil {
			node.children = make(map[E]*cacheNode[E])
		}
		next := node.children[e]
		if next == nil {
			next = &cacheNode[E]{}
			node.children[e] = next
		}
		node = next
	}
	node.causes = causes
	node.filled = true
	c.mu.Unlock()
	return causes, nil
}
