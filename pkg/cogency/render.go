package cogency

import (
	"fmt"
	"io"
	"strings"
)

// WriteExplanations renders each explanation's label cover, metrics
// and witness trees to w, one block per explanation.
func WriteExplanations[E comparable](w io.Writer, xs []Explanation[E]) error {
	for i, x := range xs {
		_, err := fmt.Fprintf(w, "cover %d: %v (cardinality=%d size=%d depth=%d..%d)\n",
			i, x.Labels, x.Cardinality, x.Size, x.MinDepth, x.MaxDepth)
		if err != nil {
			return err
		}
		for _, tree := range x.Forest() {
			if err := writeTree(w, tree, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTree[E comparable](w io.Writer, t Tree[E], depth int) error {
	_, err := fmt.Fprintf(w, "%s%v %v\n", strings.Repeat("  ", depth), t.Label, t.Span)
	if err != nil {
		return err
	}
	for _, child := range t.Children {
		if err := writeTree(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
