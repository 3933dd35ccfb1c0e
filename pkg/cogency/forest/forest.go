// Package forest enumerates full covering forests: tilings of the
// whole observation by span chart entries. Enumeration is exhaustive,
// so output size can grow combinatorially; callers bound the work with
// an explicit cover cap and context deadline, never an implicit cutoff.
package forest

import (
	"context"
	"fmt"

	"github.com/cognicore/cogency/pkg/cogency/chart"
)

// Cover is one complete tiling of the observation. Roots reference
// chart entries left to right; Labels is the concatenated root label
// sequence.
type Cover[E comparable] struct {
	Roots  []chart.EntryID
	Labels []E
}

// Cardinality is the number of trees in the forest
func (c Cover[E]) Cardinality() int { return len(c.Roots) }

// CapError reports that enumeration hit the caller's cover cap.
// The result set at that point is discarded rather than returned as a
// misleadingly complete answer.
type CapError struct {
	Limit int
}

func (e *CapError) Error() string {
	return fmt.Sprintf("cover enumeration exceeded cap of %d tilings", e.Limit)
}

// Options configures composition
type Options[E comparable] struct {
	// MaxCovers caps the number of tilings held across the boundary
	// table, partial ones included. Zero means unbounded.
	MaxCovers int

	// Admit, when set, is consulted each time a root is appended to a
	// partial cover; returning false drops the extension. The engine
	// uses it to prune covers that can no longer become top-level.
	Admit func(labels []E) (bool, error)
}

// Compose runs the boundary dynamic program: partitions of [0, j) are
// built by extending every partition of [0, i) with each chart entry
// on [i, j). Partitions of the full range are returned in construction
// order, which is deterministic for a deterministic oracle.
func Compose[E comparable](ctx context.Context, c *chart.Chart[E], opts Options[E]) ([]Cover[E], error) {
	n := c.ObservationLen()
	partitions := make([][]Cover[E], n+1)
	partitions[0] = []Cover[E]{{}}
	held := 0

	for j := 1; j <= n; j++ {
		for i := 0; i < j; i++ {
			entries := c.Entries(chart.Span{Start: i, End: j})
			if len(entries) == 0 {
				continue
			}
			for _, partial := range partitions[i] {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				for idx := range entries {
					cover := Cover[E]{
						Roots:  appendCopy(partial.Roots, chart.EntryID{Span: chart.Span{Start: i, End: j}, Index: idx}),
						Labels: appendCopy(partial.Labels, entries[idx].Label),
					}
					if opts.Admit != nil {
						ok, err := opts.Admit(cover.Labels)
						if err != nil {
							return nil, err
						}
						if !ok {
							continue
						}
					}
					held++
					if opts.MaxCovers > 0 && held > opts.MaxCovers {
						return nil, &CapError{Limit: opts.MaxCovers}
					}
					partitions[j] = append(partitions[j], cover)
				}
			}
		}
	}
	return partitions[n], nil
}

func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s)+1)
	copy(out, s)
	out[len(s)] = v
	return out
}
