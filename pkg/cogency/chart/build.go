package chart

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/cogency/pkg/cogency/oracle"
)

// Options configures a chart build
type Options struct {
	// MaxEffects is M, the longest effect sequence in the causal
	// relation. Required. A bound smaller than the relation's true
	// maximum silently prunes valid derivations; that is the caller's
	// contract, not a detected condition.
	MaxEffects int

	// Workers bounds how many spans of equal length are computed
	// concurrently. Values below 2 build sequentially. Oracles must be
	// safe for concurrent invocation when Workers > 1.
	Workers int
}

// Build computes the closure of admissible entries for every span of w.
// Spans are processed by increasing length, so an entry only ever
// references finalized entries of the same or shorter spans. The
// derived entry sets are identical for any worker count.
func Build[E comparable](ctx context.Context, o oracle.Oracle[E], w []E, opts Options) (*Chart[E], error) {
	if opts.MaxEffects < 1 {
		return nil, errors.New("chart: effect length bound must be at least 1")
	}
	b := &builder[E]{
		oracle: o,
		w:      w,
		m:      opts.MaxEffects,
		chart:  &Chart[E]{n: len(w), entries: make(map[Span][]Entry[E])},
	}

	for length := 1; length <= len(w); length++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results := make([][]Entry[E], len(w)-length+1)
		if opts.Workers > 1 {
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(opts.Workers)
			for i := range results {
				g.Go(func() error {
					entries, err := b.span(gctx, Span{Start: i, End: i + length})
					results[i] = entries
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
		} else {
			for i := range results {
				entries, err := b.span(ctx, Span{Start: i, End: i + length})
				if err != nil {
					return nil, err
				}
				results[i] = entries
			}
		}
		// Barrier: entries of this length become visible only once the
		// whole layer is done.
		for i, entries := range results {
			if len(entries) > 0 {
				b.chart.entries[Span{Start: i, End: i + length}] = entries
			}
		}
	}
	return b.chart, nil
}

type builder[E comparable] struct {
	oracle oracle.Oracle[E]
	w      []E
	m      int
	chart  *Chart[E]
}

// span computes the closed entry set for one span. Base entries come
// from the observed leaf (length 1) or from tilings into 2..M shorter
// spans; singleton chaining then runs every entry, including freshly
// chained ones, to a fixpoint.
func (b *builder[E]) span(ctx context.Context, sp Span) ([]Entry[E], error) {
	var entries []Entry[E]
	add := func(e Entry[E]) {
		for _, have := range entries {
			if have.Label == e.Label && slices.Equal(have.Children, e.Children) {
				return
			}
		}
		entries = append(entries, e)
	}

	if sp.Len() == 1 {
		add(Entry[E]{Label: b.w[sp.Start], Span: sp, Size: 1})
	} else if err := b.combine(ctx, sp, sp.Start, nil, nil, add); err != nil {
		return nil, err
	}

	for i := 0; i < len(entries); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur := entries[i]
		causes, err := b.oracle.Causes(ctx, []E{cur.Label})
		if err != nil {
			return nil, err
		}
		for _, c := range causes {
			if b.onChain(entries, sp, cur, c) {
				return nil, &CycleError[E]{Label: c, Span: sp}
			}
			add(Entry[E]{
				Label:    c,
				Span:     sp,
				Children: []EntryID{{Span: sp, Index: i}},
				MinDepth: cur.MinDepth + 1,
				MaxDepth: cur.MaxDepth + 1,
				Size:     cur.Size + 1,
			})
		}
	}
	return entries, nil
}

// combine enumerates every tiling of sp into 2 to M contiguous parts
// drawn from finalized entry sets, querying the oracle once per label
// tuple reached.
func (b *builder[E]) combine(ctx context.Context, sp Span, pos int, chosen []EntryID, labels []E, add func(Entry[E])) error {
	if pos == sp.End {
		if len(chosen) < 2 {
			return nil
		}
		causes, err := b.oracle.Causes(ctx, labels)
		if err != nil {
			return err
		}
		if len(causes) == 0 {
			return nil
		}
		minDepth, maxDepth, size := b.childMetrics(chosen)
		children := slices.Clone(chosen)
		for _, c := range causes {
			add(Entry[E]{
				Label:    c,
				Span:     sp,
				Children: children,
				MinDepth: minDepth,
				MaxDepth: maxDepth,
				Size:     size,
			})
		}
		return nil
	}
	if len(chosen) == b.m {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for end := pos + 1; end <= sp.End; end++ {
		if pos == sp.Start && end == sp.End {
			// k=1 over the whole span is singleton chaining, handled
			// after the base entries exist.
			continue
		}
		part := Span{Start: pos, End: end}
		parts := b.chart.entries[part]
		for idx, entry := range parts {
			err := b.combine(ctx, sp, end,
				append(chosen, EntryID{Span: part, Index: idx}),
				append(labels, entry.Label), add)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder[E]) childMetrics(children []EntryID) (minDepth, maxDepth, size int) {
	size = 1
	for i, id := range children {
		child := b.chart.entries[id.Span][id.Index]
		if i == 0 || child.MinDepth < minDepth {
			minDepth = child.MinDepth
		}
		if child.MaxDepth > maxDepth {
			maxDepth = child.MaxDepth
		}
		size += child.Size
	}
	return minDepth + 1, maxDepth + 1, size
}

// onChain reports whether cause already occurs on the singleton chain
// descending from e within this span. A hit means chaining would
// re-derive the same label above itself and never terminate.
func (b *builder[E]) onChain(local []Entry[E], sp Span, e Entry[E], cause E) bool {
	for {
		if e.Label == cause {
			return true
		}
		if len(e.Children) != 1 {
			return false
		}
		id := e.Children[0]
		if id.Span == sp {
			e = local[id.Index]
		} else {
			e = b.chart.entries[id.Span][id.Index]
		}
	}
}
