// Package cogency reconstructs multi-level causal explanations for an
// observed event sequence. Given a black-box oracle describing which
// causes directly produce which ordered effect sequences, Explain
// enumerates every top-level covering forest of the observation;
// ranking criteria then select the most parsimonious ones.
package cogency

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/cogency/pkg/cogency/chart"
	"github.com/cognicore/cogency/pkg/cogency/forest"
	"github.com/cognicore/cogency/pkg/cogency/oracle"
	"github.com/cognicore/cogency/pkg/cogency/toplevel"
)

// ErrInvalidOption reports unusable engine options
var ErrInvalidOption = errors.New("invalid option")

// Options configures one Explain invocation
type Options struct {
	// MaxEffects is M, the longest effect sequence in the causal
	// relation. Required; it cannot be derived from a black-box
	// oracle. A value smaller than the relation's true maximum
	// silently prunes valid explanations — that is the caller's
	// contract. A value larger than necessary only costs time.
	MaxEffects int

	// MaxCovers caps how many tilings (partial ones included) the
	// composer may hold before aborting with a cap error. Zero means
	// unbounded; there is no implicit default.
	MaxCovers int

	// Workers bounds concurrent span computations within one chart
	// layer. Values below 2 run sequentially. The oracle must be safe
	// for concurrent invocation when Workers > 1.
	Workers int

	// Timeout, when positive, bounds the whole invocation. The parent
	// context is honored either way.
	Timeout time.Duration
}

// Status summarizes how an invocation ended
type Status int

const (
	// StatusSuccess means at least one explanation was found
	StatusSuccess Status = iota
	// StatusNoExplanation means the observation admits no top-level cover
	StatusNoExplanation
	// StatusTimeout means the deadline expired; partial results are discarded
	StatusTimeout
	// StatusCancelled means the caller cancelled; partial results are discarded
	StatusCancelled
	// StatusFailed means a structured error aborted the run
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusNoExplanation:
		return "NoExplanation"
	case StatusTimeout:
		return "Timeout"
	case StatusCancelled:
		return "Cancelled"
	case StatusFailed:
		return "Failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Diagnostics reports execution detail for one invocation
type Diagnostics struct {
	RunID         string
	OracleQueries int64 // distinct queries that reached the oracle
	ChartEntries  int
	Pruned        int64 // partial covers dropped as non-top-level
	BuildTime     time.Duration
	ComposeTime   time.Duration
}

// Result is the outcome of one Explain invocation
type Result[E comparable] struct {
	Status       Status
	Explanations []Explanation[E]
	Diagnostics  Diagnostics
}

// Explanation is a top-level covering forest of the observation with
// its parsimony metrics. Cardinality is the number of trees, Size the
// total node count, MinDepth and MaxDepth the shortest and longest
// root-to-leaf paths across all trees. Explanations are immutable and
// share witness structure through the chart arena of the invocation
// that produced them.
type Explanation[E comparable] struct {
	Labels []E
	Roots  []chart.EntryID

	Cardinality int
	Size        int
	MinDepth    int
	MaxDepth    int

	chart *chart.Chart[E]
}

// Explain computes every top-level covering forest of w under the
// given oracle and bound. The result is a pure function of
// (oracle, w, options); nothing is cached across invocations.
//
// Explanations are returned in composition order (by tiling boundary,
// then by entry derivation order within a span), which is stable and
// deterministic for a deterministic oracle. An empty observation
// yields a single trivial explanation of cardinality zero.
//
// On failure the error is structured: *oracle.Error for an oracle
// that reported failure, *chart.CycleError for a degenerate
// self-chaining rule, *forest.CapError for the cover cap, and the
// context errors for timeout and cancellation.
func Explain[E comparable](ctx context.Context, o oracle.Oracle[E], w []E, opts Options) (Result[E], error) {
	diag := Diagnostics{RunID: newRunID()}
	if opts.MaxEffects < 1 {
		return Result[E]{Status: StatusFailed, Diagnostics: diag},
			fmt.Errorf("%w: MaxEffects must be at least 1", ErrInvalidOption)
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// One cache per invocation: oracles are referentially stable
	// within a call, and every top-level window the composer checks
	// was already queried during the chart closure.
	cached := oracle.NewCache(o)

	start := time.Now()
	ch, err := chart.Build(ctx, cached, w, chart.Options{
		MaxEffects: opts.MaxEffects,
		Workers:    opts.Workers,
	})
	diag.BuildTime = time.Since(start)
	diag.OracleQueries = cached.Calls()
	if err != nil {
		return Result[E]{Status: statusFor(err), Diagnostics: diag}, err
	}
	diag.ChartEntries = ch.Size()

	start = time.Now()
	covers, err := forest.Compose(ctx, ch, forest.Options[E]{
		MaxCovers: opts.MaxCovers,
		Admit: func(labels []E) (bool, error) {
			ok, admitErr := toplevel.Extendable(ctx, cached, labels, opts.MaxEffects)
			if admitErr == nil && !ok {
				diag.Pruned++
			}
			return ok, admitErr
		},
	})
	diag.ComposeTime = time.Since(start)
	diag.OracleQueries = cached.Calls()
	if err != nil {
		return Result[E]{Status: statusFor(err), Diagnostics: diag}, err
	}

	explanations := make([]Explanation[E], 0, len(covers))
	for _, cover := range covers {
		explanations = append(explanations, newExplanation(ch, cover))
	}

	status := StatusSuccess
	if len(explanations) == 0 {
		status = StatusNoExplanation
	}
	return Result[E]{Status: status, Explanations: explanations, Diagnostics: diag}, nil
}

func newExplanation[E comparable](ch *chart.Chart[E], cover forest.Cover[E]) Explanation[E] {
	ex := Explanation[E]{
		Labels:      cover.Labels,
		Roots:       cover.Roots,
		Cardinality: len(cover.Roots),
		chart:       ch,
	}
	for i, id := range cover.Roots {
		entry := ch.Entry(id)
		ex.Size += entry.Size
		if i == 0 || entry.MinDepth < ex.MinDepth {
			ex.MinDepth = entry.MinDepth
		}
		if entry.MaxDepth > ex.MaxDepth {
			ex.MaxDepth = entry.MaxDepth
		}
	}
	return ex
}

func statusFor(err error) Status {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, context.Canceled):
		return StatusCancelled
	}
	return StatusFailed
}

func newRunID() string {
	return ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String()
}

// Tree is a materialized witness tree
type Tree[E comparable] struct {
	Label    E
	Span     chart.Span
	Children []Tree[E]
}

// Forest materializes the explanation's witness trees left to right
func (e Explanation[E]) Forest() []Tree[E] {
	trees := make([]Tree[E], 0, len(e.Roots))
	for _, id := range e.Roots {
		trees = append(trees, e.tree(id))
	}
	return trees
}

func (e Explanation[E]) tree(id chart.EntryID) Tree[E] {
	entry := e.chart.Entry(id)
	t := Tree[E]{Label: entry.Label, Span: entry.Span}
	for _, child := range entry.Children {
		t.Children = append(t.Children, e.tree(child))
	}
	return t
}

// Leaves reads the explanation's leaves left to right; for a sound
// explanation this reproduces the observation exactly.
func (e Explanation[E]) Leaves() []E {
	var out []E
	var walk func(chart.EntryID)
	walk = func(id chart.EntryID) {
		entry := e.chart.Entry(id)
		if entry.Leaf() {
			out = append(out, entry.Label)
			return
		}
		for _, child := range entry.Children {
			walk(child)
		}
	}
	for _, id := range e.Roots {
		walk(id)
	}
	return out
}
