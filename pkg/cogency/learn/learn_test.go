package learn

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/cogency/pkg/cogency"
	"github.com/cognicore/cogency/pkg/cogency/oracle"
)

// driveSwapRelation is the operational domain of the learning demo:
// three hand-action rules for swapping a drive.
func driveSwapRelation() *oracle.Relation[string] {
	rel := oracle.NewRelation[string]()
	rel.Add("unscrew", "grasp-driver", "turn", "lift")
	rel.Add("extract", "unscrew", "pull")
	rel.Add("insert", "align", "push")
	return rel
}

func demo() []string {
	return []string{"grasp-driver", "turn", "lift", "pull", "align", "push"}
}

func TestGrowFromAcceptedCovers(t *testing.T) {
	rel := driveSwapRelation()
	ctx := context.Background()

	result, err := cogency.Explain(ctx, rel, demo(), cogency.Options{MaxEffects: 3})
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	mc, _, ok := cogency.MinCardinality(result.Explanations)
	if !ok || len(mc) != 1 {
		t.Fatalf("expected a single parsimonious cover, got %d", len(mc))
	}
	if diff := cmp.Diff([]string{"extract", "insert"}, mc[0].Labels); diff != "" {
		t.Fatalf("demo cover mismatch (-want +got):\n%s", diff)
	}

	kb := New[string]()
	kb.Grow("replace-drive", mc)

	if got := kb.MaxEffectLen(); got != 2 {
		t.Errorf("MaxEffectLen = %d, want 2", got)
	}
	rules := kb.Rules()
	if len(rules) != 1 || rules[0].Cause != "replace-drive" {
		t.Fatalf("rules = %+v, want the single learned rule", rules)
	}
	causes, err := kb.Causes(ctx, []string{"extract", "insert"})
	if err != nil {
		t.Fatalf("Causes: %v", err)
	}
	if len(causes) != 1 || causes[0] != "replace-drive" {
		t.Errorf("causes = %v, want [replace-drive]", causes)
	}
}

func TestLearnedRuleCompressesRepetition(t *testing.T) {
	rel := driveSwapRelation()
	ctx := context.Background()

	result, err := cogency.Explain(ctx, rel, demo(), cogency.Options{MaxEffects: 3})
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	mc, _, _ := cogency.MinCardinality(result.Explanations)

	kb := New[string]()
	kb.Grow("replace-drive", mc)

	doubled := append(demo(), demo()...)
	extended, err := cogency.Explain(ctx, kb.Extend(rel), doubled, cogency.Options{MaxEffects: 3})
	if err != nil {
		t.Fatalf("Explain extended: %v", err)
	}
	if len(extended.Explanations) != 1 {
		t.Fatalf("got %d covers, want only the learned compression", len(extended.Explanations))
	}
	want := []string{"replace-drive", "replace-drive"}
	if diff := cmp.Diff(want, extended.Explanations[0].Labels); diff != "" {
		t.Errorf("cover mismatch (-want +got):\n%s", diff)
	}
}

func TestGrowSkipsTrivialCovers(t *testing.T) {
	result, err := cogency.Explain(context.Background(), driveSwapRelation(), nil, cogency.Options{MaxEffects: 3})
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}

	kb := New[string]()
	kb.Grow("anything", result.Explanations)
	if len(kb.Rules()) != 0 {
		t.Errorf("rules = %+v, empty covers must not become rules", kb.Rules())
	}
}
