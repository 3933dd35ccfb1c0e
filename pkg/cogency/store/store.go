// Package store defines the optional archive for string-event
// domains: learned rules, run summaries and accepted covers. The
// engine core never touches it; collaborators persist what they want
// to keep across sessions.
package store

import (
	"context"
	"time"

	"github.com/cognicore/cogency/pkg/cogency/oracle"
)

// Store persists rules and explanation runs
type Store interface {
	Close() error

	// Rules
	SaveRules(ctx context.Context, rules []oracle.Rule[string]) error
	Rules(ctx context.Context) ([]oracle.Rule[string], error)

	// Runs
	SaveRun(ctx context.Context, r Run) error
	Runs(ctx context.Context, limit int) ([]Run, error)

	// Covers
	SaveCovers(ctx context.Context, runID string, covers []Cover) error
	Covers(ctx context.Context, runID string) ([]Cover, error)
}

// Run summarizes one engine invocation
type Run struct {
	ID            string
	Observation   []string
	Status        string
	CoverCount    int
	OracleQueries int64
	Elapsed       time.Duration
	CreatedAt     time.Time
}

// Cover is one archived explanation cover with its metrics
type Cover struct {
	Labels      []string
	Cardinality int
	Size        int
	MinDepth    int
	MaxDepth    int
}
