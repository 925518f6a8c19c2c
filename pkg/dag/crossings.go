package dag

import (
	"cmp"
	"maps"
	"slices"
)

// CountCrossings sums the edge crossings between every row r in orders and
// row r+1. Each row lists node IDs left to right; a missing row is empty.
//
//	orders := map[int][]string{
//	    0: {"root"},
//	    1: {"root.a", "root.b"},
//	}
//	n := dag.CountCrossings(g, orders) // 0
//
// Document trees laid out with contiguous subtrees never cross; the count is
// reported so that a layout regression shows up as a number.
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		total += CountLayerCrossings(g, orders[r], orders[r+1])
	}
	return total
}

// CountLayerCrossings counts crossings between the edges joining upper to
// lower. Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 and v1 is
// right of v2, so the count is the number of inversions in the lower
// positions once edges are sorted by upper position. It runs in
// O(E log V) with a Fenwick tree over the lower row.
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	type span struct{ from, to int }
	var spans []span
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if j, ok := lowerPos[child]; ok {
				spans = append(spans, span{i, j})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}
	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to))
	})

	seen := newFenwick(len(lower))
	crossings := 0
	for n, s := range spans {
		// earlier spans that land strictly right of s.to cross it
		crossings += n - seen.prefix(s.to)
		seen.add(s.to)
	}
	return crossings
}

// fenwick counts positions seen so far and answers "how many at or left of
// i" in logarithmic time.
type fenwick []int

func newFenwick(n int) fenwick { return make(fenwick, n+1) }

func (f fenwick) add(i int) {
	for i++; i < len(f); i += i & -i {
		f[i]++
	}
}

func (f fenwick) prefix(i int) int {
	sum := 0
	for i++; i > 0; i -= i & -i {
		sum += f[i]
	}
	return sum
}
