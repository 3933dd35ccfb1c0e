// Package parsimony selects the items of a set that optimize a scalar
// metric. Every ranking criterion in the engine goes through the same
// two combinators; a new criterion is a new metric function, not a new
// code path.
package parsimony

// Metric maps an item to a totally ordered score
type Metric[T any] func(T) int

// Min returns every item attaining the minimum metric value, in input
// order, together with that value. Ties are all retained. For empty
// input ok is false and the slice and value are zero; the sentinel
// distinguishes "no items" from a genuine optimum of zero.
func Min[T any](items []T, metric Metric[T]) (best []T, optimum int, ok bool) {
	return selectBy(items, metric, func(a, b int) bool { return a < b })
}

// Max is Min with the comparison inverted
func Max[T any](items []T, metric Metric[T]) (best []T, optimum int, ok bool) {
	return selectBy(items, metric, func(a, b int) bool { return a > b })
}

func selectBy[T any](items []T, metric Metric[T], better func(a, b int) bool) ([]T, int, bool) {
	if len(items) == 0 {
		return nil, 0, false
	}
	optimum := metric(items[0])
	best := []T{items[0]}
	for _, item := range items[1:] {
		v := metric(item)
		switch {
		case better(v, optimum):
			optimum = v
			best = append(best[:0], item)
		case v == optimum:
			best = append(best, item)
		}
	}
	return best, optimum, true
}
