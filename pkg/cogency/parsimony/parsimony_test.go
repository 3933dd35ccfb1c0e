package parsimony

import "testing"

func TestMinSelectsAllTies(t *testing.T) {
	items := []string{"bb", "a", "cc", "d"}
	best, optimum, ok := Min(items, func(s string) int { return len(s) })
	if !ok {
		t.Fatal("ok should be true for nonempty input")
	}
	if optimum != 1 {
		t.Errorf("optimum = %d, want 1", optimum)
	}
	if len(best) != 2 || best[0] != "a" || best[1] != "d" {
		t.Errorf("best = %v, want [a d] in input order", best)
	}
}

func TestMaxInvertsComparison(t *testing.T) {
	items := []int{3, 9, 2, 9}
	best, optimum, ok := Max(items, func(v int) int { return v })
	if !ok || optimum != 9 {
		t.Fatalf("optimum = %d ok=%v, want 9 true", optimum, ok)
	}
	if len(best) != 2 {
		t.Errorf("best = %v, want both nines", best)
	}
}

func TestEmptyInputSentinel(t *testing.T) {
	best, optimum, ok := Min(nil, func(int) int { return 0 })
	if ok {
		t.Error("ok should be false for empty input")
	}
	if best != nil || optimum != 0 {
		t.Errorf("got (%v, %d), want (nil, 0)", best, optimum)
	}
}

func TestIdempotence(t *testing.T) {
	items := []int{4, 2, 7, 2}
	metric := func(v int) int { return v }
	once, optimum, _ := Min(items, metric)
	twice, again, _ := Min(once, metric)
	if optimum != again {
		t.Errorf("optimum changed on re-rank: %d then %d", optimum, again)
	}
	if len(once) != len(twice) {
		t.Fatalf("re-ranking changed the set: %v then %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("re-ranking reordered: %v then %v", once, twice)
		}
	}
}
