// Command cogency explains an observed event sequence under a YAML
// domain file, ranks the explanations by a parsimony criterion, and
// optionally archives the run and grows a learned rule base.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cognicore/cogency/pkg/cogency"
	"github.com/cognicore/cogency/pkg/cogency/config"
	"github.com/cognicore/cogency/pkg/cogency/learn"
	"github.com/cognicore/cogency/pkg/cogency/oracle"
	"github.com/cognicore/cogency/pkg/cogency/store"
	"github.com/cognicore/cogency/pkg/cogency/store/sqlite"
)

func main() {
	var (
		domainPath = flag.String("domain", "", "Domain YAML file (required)")
		observe    = flag.String("observe", "", "Comma-separated observation (overrides the domain file)")
		criterion  = flag.String("criterion", "mc", "Ranking criterion: mc|fsn|fsx|xd|irr|none")
		dbPath     = flag.String("db", "", "SQLite archive path (optional)")
		learnAs    = flag.String("learn", "", "Grow a learned rule for this cause from the ranked covers")
		timeout    = flag.Duration("timeout", 0, "Overall timeout (overrides the domain file)")
		maxCovers  = flag.Int("max-covers", 0, "Cover cap (overrides the domain file)")
		workers    = flag.Int("workers", 0, "Chart workers (overrides the domain file)")
	)
	flag.Parse()

	if *domainPath == "" {
		log.Fatal("--domain required")
	}

	domain, err := config.LoadDomain(*domainPath)
	if err != nil {
		log.Fatal(err)
	}

	observation := domain.Observation
	if *observe != "" {
		observation = splitEvents(*observe)
	}
	if len(observation) == 0 {
		log.Fatal("no observation: set it in the domain file or pass --observe")
	}

	opts := domain.Options()
	if *timeout > 0 {
		opts.Timeout = *timeout
	}
	if *maxCovers > 0 {
		opts.MaxCovers = *maxCovers
	}
	if *workers > 0 {
		opts.Workers = *workers
	}

	ctx := context.Background()

	var archive store.Store
	if *dbPath != "" {
		archive, err = sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer archive.Close()
	}

	rel := domain.Relation()
	var domainOracle oracle.Oracle[string] = rel
	if archive != nil {
		// Learned rules from earlier sessions extend the domain.
		saved, err := archive.Rules(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if len(saved) > 0 {
			learned := oracle.NewRelation[string]()
			for _, r := range saved {
				learned.Add(r.Cause, r.Effects...)
			}
			domainOracle = oracle.Union[string](rel, learned)
			if learned.MaxEffectLen() > opts.MaxEffects {
				opts.MaxEffects = learned.MaxEffectLen()
			}
		}
	}

	startedAt := time.Now()
	result, err := cogency.Explain(ctx, domainOracle, observation, opts)
	if err != nil {
		log.Fatalf("explain: %s: %v", result.Status, err)
	}

	fmt.Printf("status: %s\n", result.Status)
	fmt.Printf("observation: %v\n", observation)
	fmt.Printf("top-level covers: %d (chart entries %d, oracle queries %d, pruned %d)\n",
		len(result.Explanations), result.Diagnostics.ChartEntries,
		result.Diagnostics.OracleQueries, result.Diagnostics.Pruned)

	ranked, err := rank(ctx, *criterion, result.Explanations)
	if err != nil {
		log.Fatal(err)
	}
	if err := cogency.WriteExplanations(os.Stdout, ranked); err != nil {
		log.Fatal(err)
	}

	if archive != nil {
		if err := saveRun(ctx, archive, result, observation, time.Since(startedAt), ranked); err != nil {
			log.Fatal(err)
		}
	}

	if *learnAs != "" {
		kb := learn.New[string]()
		kb.Grow(*learnAs, ranked)
		fmt.Printf("learned %d rule(s) for %q\n", len(kb.Rules()), *learnAs)
		if archive != nil {
			if err := archive.SaveRules(ctx, kb.Rules()); err != nil {
				log.Fatal(err)
			}
		}
	}
}

func rank(ctx context.Context, criterion string, xs []cogency.Explanation[string]) ([]cogency.Explanation[string], error) {
	switch criterion {
	case "none", "":
		return xs, nil
	case "mc":
		ranked, _, _ := cogency.MinCardinality(xs)
		return ranked, nil
	case "fsn":
		ranked, _, _ := cogency.MinForestSize(xs)
		return ranked, nil
	case "fsx":
		ranked, _, _ := cogency.MaxForestSize(xs)
		return ranked, nil
	case "xd":
		ranked, _, _ := cogency.MinimaxDepth(xs)
		return ranked, nil
	case "irr":
		return cogency.Irredundant(ctx, xs)
	}
	return nil, fmt.Errorf("unknown criterion %q", criterion)
}

func saveRun(ctx context.Context, archive store.Store, result cogency.Result[string], observation []string, elapsed time.Duration, ranked []cogency.Explanation[string]) error {
	run := store.Run{
		ID:            result.Diagnostics.RunID,
		Observation:   observation,
		Status:        result.Status.String(),
		CoverCount:    len(result.Explanations),
		OracleQueries: result.Diagnostics.OracleQueries,
		Elapsed:       elapsed,
		CreatedAt:     time.Now(),
	}
	if err := archive.SaveRun(ctx, run); err != nil {
		return err
	}
	covers := make([]store.Cover, 0, len(ranked))
	for _, x := range ranked {
		covers = append(covers, store.Cover{
			Labels:      x.Labels,
			Cardinality: x.Cardinality,
			Size:        x.Size,
			MinDepth:    x.MinDepth,
			MaxDepth:    x.MaxDepth,
		})
	}
	return archive.SaveCovers(ctx, result.Diagnostics.RunID, covers)
}

func splitEvents(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
