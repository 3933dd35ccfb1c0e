// Package toplevel decides whether a cover is top-level: not itself
// reducible by one more causal step anywhere along its label sequence.
package toplevel

import (
	"context"

	"github.com/cognicore/cogency/pkg/cogency/oracle"
)

// IsTopLevel reports whether no contiguous window of labels with
// length at most maxEffects has a nonempty cause set. A cover failing
// this is strictly subsumed by the cover obtained by chaining the
// causable window one level further, which the composer produces as a
// separate candidate over the same leaves.
func IsTopLevel[E comparable](ctx context.Context, o oracle.Oracle[E], labels []E, maxEffects int) (bool, error) {
	for end := 1; end <= len(labels); end++ {
		ok, err := windowsEndingAt(ctx, o, labels, end, maxEffects)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Extendable reports whether a partial cover could still become
// top-level after appending its last label: it checks only the
// windows ending at the final position, since earlier windows were
// checked when their own last label was appended. An applicable
// window never disappears from an extension, so a false result is
// final for every extension of the cover.
func Extendable[E comparable](ctx context.Context, o oracle.Oracle[E], labels []E, maxEffects int) (bool, error) {
	return windowsEndingAt(ctx, o, labels, len(labels), maxEffects)
}

func windowsEndingAt[E comparable](ctx context.Context, o oracle.Oracle[E], labels []E, end, maxEffects int) (bool, error) {
	for size := 1; size <= maxEffects && size <= end; size++ {
		causes, err := o.Causes(ctx, labels[end-size:end])
		if err != nil {
			return false, err
		}
		if len(causes) > 0 {
			return false, nil
		}
	}
	return true, nil
}
