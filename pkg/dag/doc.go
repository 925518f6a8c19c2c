// Package dag provides a directed acyclic graph organized into rows (layers),
// the structure the layout engine draws from.
//
// # Overview
//
// A JSON document is a tree, but the layout engine is written against the
// more general layered DAG: nodes are grouped into horizontal rows and every
// edge points from a row to a lower one. The graph builder converts a
// document graph into a DAG, the [transform] subpackage assigns rows, and
// the layout package places each row.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "root"})
//	g.AddNode(dag.Node{ID: "root.name"})
//	g.AddEdge(dag.Edge{From: "root", To: "root.name"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents],
// [DAG.NodesInRow], and related methods. Use [DAG.Validate] to verify
// structural integrity after rows have been assigned.
//
// # Ordering
//
// Every query that returns several nodes returns them in insertion order.
// The graph builder adds nodes in depth-first pre-order and edges in child
// order, so sibling order in a row always matches document order.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree (binary
// indexed tree) to count inversions in O(E log V) time.
//
// # Metadata
//
// Nodes carry renderer hints (kind, display value, color) in a [Metadata]
// map, which is never nil once the node is added.
//
// [transform]: github.com/matzehuels/jsonscope/pkg/dag/transform
package dag
