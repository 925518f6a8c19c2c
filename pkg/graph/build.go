package graph

import (
	"strconv"

	"github.com/matzehuels/jsonscope/pkg/classify"
	"github.com/matzehuels/jsonscope/pkg/value"
)

// Build converts a document into its node-link graph.
//
// Traversal is depth-first pre-order starting at the root path. Each
// container emits one edge per child, in child order, immediately before
// descending into that child. Node IDs are the dotted form of the node's
// path, so a value keeps its ID across rebuilds as long as its path is
// unchanged.
//
// Build is total: every document, including a bare primitive, yields a
// graph with at least the root node and exactly len(Nodes)-1 edges.
func Build(root value.Value) Graph {
	b := &builder{}
	b.visit(root, value.RootPath(), value.RootKey, 0)
	return Graph{Nodes: b.nodes, Edges: b.edges}
}

type builder struct {
	nodes []Node
	edges []Edge
}

func (b *builder) visit(v value.Value, path value.Path, label string, depth int) {
	info := classify.Of(v)
	id := path.String()
	b.nodes = append(b.nodes, Node{
		ID:           id,
		Path:         path,
		Label:        label,
		Kind:         info.Kind,
		DisplayValue: info.Label,
		Color:        info.Color,
		Depth:        depth,
		IsLeaf:       !info.Kind.IsContainer(),
		Raw:          v,
	})

	switch v.Kind() {
	case value.KindArray:
		for i, child := range v.Elements() {
			b.child(id, child, path.Child(value.Index(i)), strconv.Itoa(i), depth+1)
		}
	case value.KindObject:
		for key, child := range v.Members() {
			b.child(id, child, path.Child(value.Key(key)), key, depth+1)
		}
	}
}

func (b *builder) child(parent string, v value.Value, path value.Path, label string, depth int) {
	target := path.String()
	b.edges = append(b.edges, Edge{ID: EdgeID(parent, target), Source: parent, Target: target})
	b.visit(v, path, label, depth)
}
