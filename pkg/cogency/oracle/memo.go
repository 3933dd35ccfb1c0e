package oracle

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memoized wraps an oracle with a bounded LRU cache that survives
// across engine invocations. Only use it for oracles that are
// referentially stable across calls; the engine never caches across
// invocations on its own.
type Memoized[E comparable] struct {
	inner Oracle[E]
	cache *lru.Cache[string, []E]
	key   func([]E) string
}

// Memoize builds a Memoized oracle holding up to size query results.
// keyFn must map distinct effect sequences to distinct strings; pass
// nil for the default fmt-based key, which is injective for event
// types whose values print unambiguously (strings without separators,
// ints, runes).
func Memoize[E comparable](o Oracle[E], size int, keyFn func([]E) string) (*Memoized[E], error) {
	if keyFn == nil {
		keyFn = func(effects []E) string { return fmt.Sprintf("%#v", effects) }
	}
	cache, err := lru.New[string, []E](size)
	if err != nil {
		return nil, err
	}
	return &Memoized[E]{inner: o, cache: cache, key: keyFn}, nil
}

// Causes implements Oracle
func (m *Memoized[E]) Causes(ctx context.Context, effects []E) ([]E, error) {
	k := m.key(effects)
	if causes, ok := m.cache.Get(k); ok {
		return causes, nil
	}
	causes, err := m.inner.Causes(ctx, effects)
	if err != nil {
		return nil, err
	}
	m.cache.Add(k, causes)
	return causes, nil
}

// Len reports the number of cached query results
func (m *Memoized[E]) Len() int { return m.cache.Len() }
