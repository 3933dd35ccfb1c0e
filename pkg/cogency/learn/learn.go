// Package learn accumulates a descriptive causal relation over time:
// explanations accepted for past observations become rules that help
// explain future ones.
package learn

import (
	"context"

	"github.com/cognicore/cogency/pkg/cogency"
	"github.com/cognicore/cogency/pkg/cogency/oracle"
)

// KnowledgeBase grows a causal relation from accepted explanations.
// It is itself an oracle, and can be layered on top of an operational
// domain oracle with Extend.
type KnowledgeBase[E comparable] struct {
	rel *oracle.Relation[E]
}

// New creates an empty knowledge base
func New[E comparable]() *KnowledgeBase[E] {
	return &KnowledgeBase[E]{rel: oracle.NewRelation[E]()}
}

// Grow records that cause produces the root label sequence of each of
// the given explanations. Typically the explanations are the
// parsimonious covers of a demonstration whose intent the caller
// already knows.
func (kb *KnowledgeBase[E]) Grow(cause E, xs []cogency.Explanation[E]) {
	for _, x := range xs {
		if len(x.Labels) == 0 {
			continue
		}
		kb.rel.Add(cause, x.Labels...)
	}
}

// Causes implements oracle.Oracle
func (kb *KnowledgeBase[E]) Causes(ctx context.Context, effects []E) ([]E, error) {
	return kb.rel.Causes(ctx, effects)
}

// Extend layers the knowledge base over an operational oracle; the
// combined cause set is the union of both.
func (kb *KnowledgeBase[E]) Extend(base oracle.Oracle[E]) oracle.Oracle[E] {
	return oracle.Union[E](kb, base)
}

// MaxEffectLen is the longest learned effect sequence; callers growing
// the bound M as rules accumulate take the max of this and the
// operational domain's own bound.
func (kb *KnowledgeBase[E]) MaxEffectLen() int { return kb.rel.MaxEffectLen() }

// Rules enumerates the learned rules
func (kb *KnowledgeBase[E]) Rules() []oracle.Rule[E] { return kb.rel.Rules() }
