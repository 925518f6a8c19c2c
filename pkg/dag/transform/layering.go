package transform

import "github.com/matzehuels/jsonscope/pkg/dag"

// AssignLayers overwrites every node's row with the length of the longest
// path reaching it from a root and returns the number of rows. On a document
// tree that is the nesting depth, with the root alone in row 0.
//
// Nodes on a cycle are never released by the topological walk and stay in
// row 0; run [dag.DAG.CheckAcyclic] first if the input may not be a tree.
func AssignLayers(g *dag.DAG) int {
	order := TopoOrder(g)
	if len(order) == 0 {
		return 0
	}

	rows := make(map[string]int, g.NodeCount())
	deepest := 0
	for _, id := range order {
		next := rows[id] + 1
		for _, child := range g.Children(id) {
			if next > rows[child] {
				rows[child] = next
				deepest = max(deepest, next)
			}
		}
	}
	for _, n := range g.Nodes() {
		if _, ok := rows[n.ID]; !ok {
			rows[n.ID] = 0
		}
	}

	g.SetRows(rows)
	return deepest + 1
}

// TopoOrder lists the node IDs so that every parent comes before its
// children. Roots are taken in insertion order and children in edge order,
// which makes the result breadth-first on a tree. Nodes on a cycle are
// left out.
func TopoOrder(g *dag.DAG) []string {
	waiting := make(map[string]int, g.NodeCount())
	order := make([]string, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		if w := g.InDegree(n.ID); w > 0 {
			waiting[n.ID] = w
		} else {
			order = append(order, n.ID)
		}
	}

	for i := 0; i < len(order); i++ {
		for _, child := range g.Children(order[i]) {
			waiting[child]--
			if waiting[child] == 0 {
				order = append(order, child)
			}
		}
	}
	return order
}
