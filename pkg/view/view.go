// Package view assembles the renderer-facing form of a document: positioned
// nodes carrying focus and search state, and the edges between them.
//
// A [View] is plain data. It serializes to the JSON sent to browser clients
// and is the input of the DOT renderer in render/nodelink.
package view

import (
	"github.com/matzehuels/jsonscope/pkg/classify"
	"github.com/matzehuels/jsonscope/pkg/graph"
	"github.com/matzehuels/jsonscope/pkg/layout"
	"github.com/matzehuels/jsonscope/pkg/match"
	"github.com/matzehuels/jsonscope/pkg/value"
)

// Node is a graph node ready to draw.
type Node struct {
	ID           string          `json:"id"`
	Label        string          `json:"label"`
	Kind         classify.Kind   `json:"kind"`
	DisplayValue string          `json:"displayValue"`
	Color        string          `json:"color"`
	Path         value.Path      `json:"path"`
	Depth        int             `json:"depth"`
	IsLeaf       bool            `json:"isLeaf"`
	IsFocus      bool            `json:"isFocus"`
	IsMatch      bool            `json:"isMatch"`
	IsDim        bool            `json:"isDim"`
	Position     layout.Position `json:"position"`
}

// State returns the search state of n.
func (n Node) State() match.State {
	switch {
	case n.IsMatch:
		return match.StateMatch
	case n.IsDim:
		return match.StateNonMatch
	}
	return match.StateNeutral
}

// Edge connects a container node to one of its children.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// View is everything a renderer needs to draw one document state.
type View struct {
	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Focus is the ID of the first changed location, empty when the
	// document did not change. FocusPath holds the same location as
	// segments; it may address a value that no longer exists.
	Focus     string     `json:"focus,omitempty"`
	FocusPath value.Path `json:"focusPath,omitempty"`

	Query   string `json:"query,omitempty"`
	Matches int    `json:"matches"`

	// Error holds the parse error message of a failed update.
	Error string `json:"error,omitempty"`
}

// Empty reports whether v has no nodes.
func (v View) Empty() bool { return len(v.Nodes) == 0 }

// Node returns the node with the given ID.
func (v View) Node(id string) (Node, bool) {
	for _, n := range v.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Build combines a graph, its layout, the focus path and a search into a
// view. A nil focus marks no node.
func Build(g graph.Graph, l layout.Layout, focus value.Path, query string, matches match.Set) View {
	v := View{
		Nodes:  make([]Node, len(g.Nodes)),
		Edges:  make([]Edge, len(g.Edges)),
		Width:  l.Width,
		Height: l.Height,
	}
	if focus != nil {
		v.Focus = focus.String()
		v.FocusPath = focus
	}
	for i, n := range g.Nodes {
		v.Nodes[i] = Node{
			ID:           n.ID,
			Label:        n.Label,
			Kind:         n.Kind,
			DisplayValue: n.DisplayValue,
			Color:        n.Color,
			Path:         n.Path,
			Depth:        n.Depth,
			IsLeaf:       n.IsLeaf,
			IsFocus:      focus != nil && n.ID == v.Focus,
			Position:     l.Positions[n.ID],
		}
	}
	for i, e := range g.Edges {
		v.Edges[i] = Edge{ID: e.ID, Source: e.Source, Target: e.Target}
	}
	return Highlight(v, query, matches)
}

// Highlight returns a copy of v with the match state of every node set
// from matches. Positions and focus are kept.
func Highlight(v View, query string, matches match.Set) View {
	active := match.Active(query)
	nodes := make([]Node, len(v.Nodes))
	for i, n := range v.Nodes {
		state := match.Classify(n.ID, matches, active)
		n.IsMatch = state == match.StateMatch
		n.IsDim = state == match.StateNonMatch
		nodes[i] = n
	}
	v.Nodes = nodes
	v.Query = query
	v.Matches = matches.Len()
	return v
}

// Failed returns an empty view carrying an error message.
func Failed(msg string) View {
	return View{Nodes: []Node{}, Edges: []Edge{}, Error: msg}
}
