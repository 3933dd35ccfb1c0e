package cogency

import (
	"context"

	"github.com/cognicore/cogency/pkg/cogency/chart"
	"github.com/cognicore/cogency/pkg/cogency/parsimony"
)

// The built-in parsimony criteria. Each returns every explanation
// attaining the optimum, in input order, together with the optimal
// value; ok is false for empty input. Re-ranking a criterion's own
// output changes nothing.

// MinCardinality selects the explanations with the fewest trees
func MinCardinality[E comparable](xs []Explanation[E]) ([]Explanation[E], int, bool) {
	return parsimony.Min(xs, func(x Explanation[E]) int { return x.Cardinality })
}

// MinForestSize selects the explanations with the fewest total nodes
func MinForestSize[E comparable](xs []Explanation[E]) ([]Explanation[E], int, bool) {
	return parsimony.Min(xs, func(x Explanation[E]) int { return x.Size })
}

// MaxForestSize selects the explanations with the most total nodes
func MaxForestSize[E comparable](xs []Explanation[E]) ([]Explanation[E], int, bool) {
	return parsimony.Max(xs, func(x Explanation[E]) int { return x.Size })
}

// MinimaxDepth selects the explanations whose deepest tree is shallowest
func MinimaxDepth[E comparable](xs []Explanation[E]) ([]Explanation[E], int, bool) {
	return parsimony.Min(xs, func(x Explanation[E]) int { return x.MaxDepth })
}

// MinMinDepth selects the explanations whose shallowest tree is shallowest
func MinMinDepth[E comparable](xs []Explanation[E]) ([]Explanation[E], int, bool) {
	return parsimony.Min(xs, func(x Explanation[E]) int { return x.MinDepth })
}

// MaxMinDepth selects the explanations whose shallowest tree is
// deepest, favoring uniformly abstracted forests.
func MaxMinDepth[E comparable](xs []Explanation[E]) ([]Explanation[E], int, bool) {
	return parsimony.Max(xs, func(x Explanation[E]) int { return x.MinDepth })
}

// Irredundant selects the explanations that contain no other
// explanation of the set as a strict structural sub-forest. All inputs
// must come from the same Explain invocation, since structural
// identity is decided by shared arena entry IDs. The check compares
// every pair of explanations and is by far the most expensive
// criterion; on large sets it can dominate total runtime, so pass a
// context with a deadline.
func Irredundant[E comparable](ctx context.Context, xs []Explanation[E]) ([]Explanation[E], error) {
	nodes := make([]map[chart.EntryID]struct{}, len(xs))
	for i, x := range xs {
		nodes[i] = nodeSet(x)
	}
	redundant := make([]int, len(xs))
	for i := range xs {
		for j := range xs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if i == j || sameForest(xs[i], xs[j]) {
				continue
			}
			if containsForest(nodes[i], xs[j]) {
				redundant[i] = 1
				break
			}
		}
	}
	indices := make([]int, len(xs))
	for i := range indices {
		indices[i] = i
	}
	best, _, _ := parsimony.Min(indices, func(i int) int { return redundant[i] })
	out := make([]Explanation[E], 0, len(best))
	for _, i := range best {
		out = append(out, xs[i])
	}
	return out, nil
}

func nodeSet[E comparable](x Explanation[E]) map[chart.EntryID]struct{} {
	set := make(map[chart.EntryID]struct{})
	var walk func(chart.EntryID)
	walk = func(id chart.EntryID) {
		if _, ok := set[id]; ok {
			return
		}
		set[id] = struct{}{}
		for _, child := range x.chart.Entry(id).Children {
			walk(child)
		}
	}
	for _, id := range x.Roots {
		walk(id)
	}
	return set
}

// containsForest reports whether every root of sub occurs as a node of
// the forest whose node set is nodes.
func containsForest[E comparable](nodes map[chart.EntryID]struct{}, sub Explanation[E]) bool {
	for _, id := range sub.Roots {
		if _, ok := nodes[id]; !ok {
			return false
		}
	}
	return true
}

func sameForest[E comparable](a, b Explanation[E]) bool {
	if len(a.Roots) != len(b.Roots) {
		return false
	}
	for i := range a.Roots {
		if a.Roots[i] != b.Roots[i] {
			return false
		}
	}
	return true
}
