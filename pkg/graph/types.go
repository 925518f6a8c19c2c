package graph

import (
	"github.com/matzehuels/jsonscope/pkg/classify"
	"github.com/matzehuels/jsonscope/pkg/value"
)

// Graph is the node-link form of a document. Nodes are listed in depth-first
// pre-order from the root and edges in the order they were discovered, so
// both slices are a pure function of the document.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one value of the document at one path.
type Node struct {
	ID           string        `json:"id"`
	Path         value.Path    `json:"path"`
	Label        string        `json:"label"`
	Kind         classify.Kind `json:"kind"`
	DisplayValue string        `json:"displayValue"`
	Color        string        `json:"color"`
	Depth        int           `json:"depth"`
	IsLeaf       bool          `json:"isLeaf"`

	// Raw is the value at Path. It shares storage with the document.
	Raw value.Value `json:"-"`
}

// Edge connects a container to one of its direct children.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeID returns the identifier of the edge from source to target.
func EdgeID(source, target string) string { return "e-" + source + "-" + target }

// Stats summarizes the shape of a graph.
type Stats struct {
	Nodes    int                   `json:"nodes"`
	Edges    int                   `json:"edges"`
	Leaves   int                   `json:"leaves"`
	MaxDepth int                   `json:"maxDepth"`
	Kinds    map[classify.Kind]int `json:"kinds"`
}

// Empty reports whether the graph has no nodes.
func (g Graph) Empty() bool { return len(g.Nodes) == 0 }

// Node returns the node with the given ID.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Index returns a lookup from node ID to position in g.Nodes.
func (g Graph) Index() map[string]int {
	m := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		m[n.ID] = i
	}
	return m
}

// Stats computes node, edge, leaf and per-kind counts.
func (g Graph) Stats() Stats {
	s := Stats{
		Nodes: len(g.Nodes),
		Edges: len(g.Edges),
		Kinds: make(map[classify.Kind]int),
	}
	for _, n := range g.Nodes {
		if n.IsLeaf {
			s.Leaves++
		}
		s.MaxDepth = max(s.MaxDepth, n.Depth)
		s.Kinds[n.Kind]++
	}
	return s
}
