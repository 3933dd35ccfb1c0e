package oracle

import "context"

// Relation is an explicit causal relation: a set of
// (cause, effect-sequence) pairs with trie-indexed lookup.
// It is a convenience for domains small enough to enumerate;
// the engine itself only ever sees the Oracle interface.
type Relation[E comparable] struct {
	root *trieNode[E]
	max  int
}

type trieNode[E comparable] struct {
	children map[E]*trieNode[E]
	causes   []E
}

// NewRelation creates an empty relation
func NewRelation[E comparable]() *Relation[E] {
	return &Relation[E]{root: &trieNode[E]{}}
}

// Add records that cause directly produces the given effect sequence.
// Duplicate pairs are ignored.
func (r *Relation[E]) Add(cause E, effects ...E) {
	if len(effects) == 0 {
		return
	}
	node := r.root
	for _, e := range effects {
		if node.children == nil {
			node.children = make(map[E]*trieNode[E])
		}
		next, ok := node.children[e]
		if !ok {
			next = &trieNode[E]{}
			node.children[e] = next
		}
		node = next
	}
	for _, c := range node.causes {
		if c == cause {
			return
		}
	}
	node.causes = append(node.causes, cause)
	if len(effects) > r.max {
		r.max = len(effects)
	}
}

// MaxEffectLen is the length of the longest effect sequence added so
// far, i.e. the tightest valid bound M for this relation.
func (r *Relation[E]) MaxEffectLen() int { return r.max }

// Rule is one (cause, effect-sequence) pair of a Relation
type Rule[E comparable] struct {
	Cause   E
	Effects []E
}

// Rules enumerates every pair in the relation. Order is unspecified.
func (r *Relation[E]) Rules() []Rule[E] {
	var out []Rule[E]
	var walk func(node *trieNode[E], effects []E)
	walk = func(node *trieNode[E], effects []E) {
		for _, c := range node.causes {
			out = append(out, Rule[E]{Cause: c, Effects: append([]E(nil), effects...)})
		}
		for e, next := range node.children {
			walk(next, append(effects, e))
		}
	}
	walk(r.root, nil)
	return out
}

// Causes implements Oracle
func (r *Relation[E]) Causes(_ context.Context, effects []E) ([]E, error) {
	node := r.root
	for _, e := range effects {
		next, ok := node.children[e]
		if !ok {
			return nil, nil
		}
		node = next
	}
	if len(node.causes) == 0 {
		return nil, nil
	}
	out := make([]E, len(node.causes))
	copy(out, node.causes)
	return out, nil
}
