// Package chart builds the span chart at the heart of the explanation
// engine: for every contiguous sub-range of an observed event sequence
// it derives every admissible root cover, closed under chaining, with
// the oracle never queried on sequences longer than the bound M.
package chart

import (
	"fmt"
	"sort"
)

// Span is a half-open index interval [Start, End) over the observation
type Span struct {
	Start int
	End   int
}

// Len is the number of observed events the span covers
func (s Span) Len() int { return s.End - s.Start }

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }

// EntryID references an entry in the chart arena by span and position.
// Entries reference their children this way rather than by pointer, so
// derivations share structure across the many candidate forests.
type EntryID struct {
	Span  Span
	Index int
}

// Entry is one admissible root label for a span together with its
// witness. A nil Children slice marks an observed leaf (span length 1);
// otherwise the children's spans tile the entry's span contiguously.
// Entries are immutable once the chart is built.
type Entry[E comparable] struct {
	Label    E
	Span     Span
	Children []EntryID

	// MinDepth and MaxDepth are the shortest and longest root-to-leaf
	// path lengths of the witness tree; Size is its total node count.
	MinDepth int
	MaxDepth int
	Size     int
}

// Leaf reports whether the entry is an observed event
func (e Entry[E]) Leaf() bool { return e.Children == nil }

// Chart is the finished arena of entries keyed by span
type Chart[E comparable] struct {
	n       int
	entries map[Span][]Entry[E]
}

// ObservationLen is the length of the observation the chart was built from
func (c *Chart[E]) ObservationLen() int { return c.n }

// Entries returns the entries admissible on s, in derivation order.
// The returned slice must not be modified.
func (c *Chart[E]) Entries(s Span) []Entry[E] { return c.entries[s] }

// Entry resolves an entry reference
func (c *Chart[E]) Entry(id EntryID) Entry[E] { return c.entries[id.Span][id.Index] }

// Size is the total number of entries across all spans
func (c *Chart[E]) Size() int {
	total := 0
	for _, es := range c.entries {
		total += len(es)
	}
	return total
}

// Spans lists every span with at least one entry, ordered by start
// position then end position.
func (c *Chart[E]) Spans() []Span {
	spans := make([]Span, 0, len(c.entries))
	for s := range c.entries {
		spans = append(spans, s)
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	return spans
}

// CycleError reports a causal relation in which a label's singleton
// chain leads back to itself; chaining such a rule would grow the
// chart forever, so the build aborts instead.
type CycleError[E comparable] struct {
	Label E
	Span  Span
}

func (e *CycleError[E]) Error() string {
	return fmt.Sprintf("cyclic causation on label %v at span %v", e.Label, e.Span)
}
