package oracle

import (
	"context"
	"fmt"
)

// Oracle exposes a causal relation as a black-box capability.
// Given an ordered effect sequence it reports every cause that can
// directly produce that sequence. Implementations must be pure and
// referentially stable for the duration of one engine invocation, and
// safe for concurrent calls when the engine runs with multiple workers.
type Oracle[E comparable] interface {
	// Causes returns the direct causes of effects. The engine never
	// calls it with a sequence longer than the configured bound M.
	Causes(ctx context.Context, effects []E) ([]E, error)
}

// Func adapts a plain function to the Oracle interface
type Func[E comparable] func(ctx context.Context, effects []E) ([]E, error)

// Causes implements Oracle
func (f Func[E]) Causes(ctx context.Context, effects []E) ([]E, error) {
	return f(ctx, effects)
}

// Error reports an oracle that failed on a specific query.
// The engine aborts on the first failure and does not retry.
type Error[E comparable] struct {
	Query []E
	Err   error
}

func (e *Error[E]) Error() string {
	return fmt.Sprintf("oracle failed on query %v: %v", e.Query, e.Err)
}

func (e *Error[E]) Unwrap() error { return e.Err }

// Union combines several oracles into one whose cause set is the
// deduplicated union of the parts, preserving first-seen order.
// Useful for layering a learned relation on top of a base domain.
func Union[E comparable](oracles ...Oracle[E]) Oracle[E] {
	return Func[E](func(ctx context.Context, effects []E) ([]E, error) {
		seen := make(map[E]struct{})
		var out []E
		for _, o := range oracles {
			causes, err := o.Causes(ctx, effects)
			if err != nil {
				return nil, err
			}
			for _, c := range causes {
				if _, ok := seen[c]; ok {
					continue
				}
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
		return out, nil
	})
}
