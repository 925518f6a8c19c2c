// Package graph turns a JSON document into the node-link graph shown by the
// explorer.
//
// # Overview
//
// [Build] walks a [value.Value] depth-first and emits one [Node] per value
// and one [Edge] per container/child pair:
//
//	doc := value.MustParse(`{"users": [{"id": 1}]}`)
//	g := graph.Build(doc)
//	// g.Nodes: root, root.users, root.users.0, root.users.0.id
//	// g.Edges: e-root-root.users, e-root.users-root.users.0, ...
//
// Node identity is a pure function of the value's path. Re-parsing an
// edited document keeps the IDs of every value whose path did not change,
// which is what lets renderers animate between layouts.
//
// # Layout Input
//
// [ToDAG] converts a graph into a [dag.DAG] for the layout engine, carrying
// the kind, display label and color as node metadata.
//
// # Serialization
//
// Graphs serialize to a plain node-link JSON format:
//
//	{
//	  "nodes": [{"id": "root", "label": "root", "kind": "object", ...}],
//	  "edges": [{"id": "e-root-root.users", "source": "root", "target": "root.users"}]
//	}
//
// [value.Value]: github.com/matzehuels/jsonscope/pkg/value
package graph
