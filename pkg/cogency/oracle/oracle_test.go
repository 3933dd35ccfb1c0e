package oracle

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func TestRelationLookup(t *testing.T) {
	rel := NewRelation[string]()
	rel.Add("c", "a", "b")
	rel.Add("d", "a", "b")
	rel.Add("e", "d", "f")

	ctx := context.Background()

	causes, err := rel.Causes(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("Causes: %v", err)
	}
	if len(causes) != 2 || causes[0] != "c" || causes[1] != "d" {
		t.Errorf("Causes(a,b) = %v, want [c d]", causes)
	}

	causes, err = rel.Causes(ctx, []string{"a"})
	if err != nil {
		t.Fatalf("Causes: %v", err)
	}
	if len(causes) != 0 {
		t.Errorf("Causes(a) = %v, want empty", causes)
	}

	causes, err = rel.Causes(ctx, []string{"x", "y", "z"})
	if err != nil {
		t.Fatalf("Causes: %v", err)
	}
	if len(causes) != 0 {
		t.Errorf("Causes on unknown sequence = %v, want empty", causes)
	}
}

func TestRelationDuplicates(t *testing.T) {
	rel := NewRelation[string]()
	rel.Add("c", "a", "b")
	rel.Add("c", "a", "b")

	causes, _ := rel.Causes(context.Background(), []string{"a", "b"})
	if len(causes) != 1 {
		t.Errorf("duplicate Add should be ignored, got %v", causes)
	}
}

func TestRelationMaxEffectLen(t *testing.T) {
	rel := NewRelation[string]()
	if rel.MaxEffectLen() != 0 {
		t.Errorf("empty relation MaxEffectLen = %d, want 0", rel.MaxEffectLen())
	}
	rel.Add("c", "a", "b")
	rel.Add("p", "g", "m", "r")
	if rel.MaxEffectLen() != 3 {
		t.Errorf("MaxEffectLen = %d, want 3", rel.MaxEffectLen())
	}
}

func TestRelationRules(t *testing.T) {
	rel := NewRelation[string]()
	rel.Add("c", "a", "b")
	rel.Add("e", "d", "f")

	rules := rel.Rules()
	if len(rules) != 2 {
		t.Fatalf("Rules() returned %d rules, want 2", len(rules))
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Cause < rules[j].Cause })
	if rules[0].Cause != "c" || len(rules[0].Effects) != 2 || rules[0].Effects[0] != "a" {
		t.Errorf("unexpected rule %v", rules[0])
	}
	if rules[1].Cause != "e" || rules[1].Effects[1] != "f" {
		t.Errorf("unexpected rule %v", rules[1])
	}
}

func TestUnionDedupes(t *testing.T) {
	a := NewRelation[string]()
	a.Add("c", "a", "b")
	b := NewRelation[string]()
	b.Add("c", "a", "b")
	b.Add("d", "a", "b")

	causes, err := Union[string](a, b).Causes(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Causes: %v", err)
	}
	if len(causes) != 2 || causes[0] != "c" || causes[1] != "d" {
		t.Errorf("union causes = %v, want [c d]", causes)
	}
}

func TestUnionPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	failing := Func[string](func(context.Context, []string) ([]string, error) {
		return nil, boom
	})
	_, err := Union[string](failing).Causes(context.Background(), []string{"a"})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestMemoizeCachesResults(t *testing.T) {
	calls := 0
	inner := Func[string](func(_ context.Context, effects []string) ([]string, error) {
		calls++
		if len(effects) == 2 {
			return []string{"c"}, nil
		}
		return nil, nil
	})

	memo, err := Memoize[string](inner, 16, nil)
	if err != nil {
		t.Fatalf("Memoize: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		causes, err := memo.Causes(ctx, []string{"a", "b"})
		if err != nil {
			t.Fatalf("Causes: %v", err)
		}
		if len(causes) != 1 || causes[0] != "c" {
			t.Errorf("Causes = %v, want [c]", causes)
		}
	}
	if calls != 1 {
		t.Errorf("underlying oracle called %d times, want 1", calls)
	}
	if memo.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", memo.Len())
	}
}

func TestCacheCountsAndCaches(t *testing.T) {
	calls := 0
	inner := Func[string](func(_ context.Context, effects []string) ([]string, error) {
		calls++
		return nil, nil
	})
	cache := NewCache[string](inner)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := cache.Causes(ctx, []string{"a", "b"}); err != nil {
			t.Fatalf("Causes: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("underlying oracle called %d times, want 1", calls)
	}
	if cache.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", cache.Calls())
	}

	// A prefix is a distinct query.
	if _, err := cache.Causes(ctx, []string{"a"}); err != nil {
		t.Fatalf("Causes: %v", err)
	}
	if cache.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", cache.Calls())
	}
}

func TestCacheWrapsFailure(t *testing.T) {
	boom := errors.New("boom")
	cache := NewCache[string](Func[string](func(context.Context, []string) ([]string, error) {
		return nil, boom
	}))

	_, err := cache.Causes(context.Background(), []string{"a", "b"})
	var oerr *Error[string]
	if !errors.As(err, &oerr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if len(oerr.Query) != 2 || oerr.Query[0] != "a" {
		t.Errorf("error query = %v, want [a b]", oerr.Query)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
}
