// Package transform provides graph transformations that prepare a DAG for
// layered drawing.
//
// # Layer Assignment
//
// [AssignLayers] gives each node the length of the longest path from a root
// as its row, walking the graph in [TopoOrder].
//
// For a document graph the result is simple: the root sits in row 0 and
// every value sits one row below its container. The layout engine relies on
// the general algorithm anyway, so that it can draw any layered DAG.
//
// # Usage
//
//	rows := transform.AssignLayers(g) // Modifies g in place
//	for _, r := range g.RowIDs() {
//	    fmt.Println(r, dag.NodeIDs(g.NodesInRow(r)))
//	}
package transform
