package layout

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/jsonscope/pkg/dag"
	"github.com/matzehuels/jsonscope/pkg/dag/transform"
	"github.com/matzehuels/jsonscope/pkg/graph"
)

// Position is the top-left corner of a node box.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout holds the computed coordinates of a graph.
type Layout struct {
	// Positions maps node IDs to the top-left corner of their box.
	Positions map[string]Position `json:"positions"`

	// Orders lists the node IDs of each rank from left to right.
	Orders map[int][]string `json:"orders"`

	// Ranks is the number of rows used.
	Ranks int `json:"ranks"`

	// Width and Height bound every node box, starting at the origin.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Crossings counts edge crossings between adjacent ranks.
	Crossings int `json:"crossings"`

	Options Options `json:"options"`
}

// Empty reports whether the layout has no positioned nodes.
func (l Layout) Empty() bool { return len(l.Positions) == 0 }

// Compute assigns a position to every node of g.
//
// Ranks come from [transform.AssignLayers], so the root sits in rank 0 and
// every child one rank below its deepest parent. Horizontally, leaves take
// consecutive slots in depth-first order and every parent is centered over
// the span of its children. A node with several parents is placed under the
// first one (insertion order); the other edges are drawn but do not affect
// placement.
//
// Compute keeps no state between calls. It modifies the rows of g and
// returns an error only when g contains a cycle.
func Compute(g *dag.DAG, opts Options) (Layout, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Layout{}, err
	}

	l := Layout{
		Positions: make(map[string]Position, g.NodeCount()),
		Orders:    make(map[int][]string),
		Options:   opts,
	}
	if g.NodeCount() == 0 {
		return l, nil
	}
	if err := g.CheckAcyclic(); err != nil {
		return Layout{}, fmt.Errorf("layout: %w", err)
	}
	l.Ranks = transform.AssignLayers(g)

	p := placer{g: g, opts: opts, x: make(map[string]float64, g.NodeCount())}
	for _, src := range g.Roots() {
		p.place(src.ID)
	}

	for _, n := range g.Nodes() {
		pos := Position{X: p.x[n.ID], Y: float64(n.Row) * (opts.NodeHeight + opts.RankSep)}
		l.Positions[n.ID] = pos
		l.Width = max(l.Width, pos.X+opts.NodeWidth)
		l.Height = max(l.Height, pos.Y+opts.NodeHeight)
	}

	for _, r := range g.RowIDs() {
		row := slices.Clone(g.NodesInRow(r))
		slices.SortStableFunc(row, func(a, b *dag.Node) int {
			return cmp.Compare(p.x[a.ID], p.x[b.ID])
		})
		l.Orders[r] = dag.NodeIDs(row)
	}
	l.Crossings = dag.CountCrossings(g, l.Orders)
	return l, nil
}

// FromGraph converts a document graph and computes its layout.
func FromGraph(g graph.Graph, opts Options) (Layout, error) {
	d, err := graph.ToDAG(g)
	if err != nil {
		return Layout{}, err
	}
	return Compute(d, opts)
}

// placer assigns horizontal coordinates over the spanning forest in which
// every node belongs to its first parent.
type placer struct {
	g      *dag.DAG
	opts   Options
	x      map[string]float64
	placed map[string]bool
	slot   int
}

func (p *placer) place(id string) {
	if p.placed == nil {
		p.placed = make(map[string]bool)
	}
	if p.placed[id] {
		return
	}
	p.placed[id] = true

	var owned []string
	for _, c := range p.g.Children(id) {
		if parents := p.g.Parents(c); len(parents) > 0 && parents[0] == id && !p.placed[c] {
			p.place(c)
			owned = append(owned, c)
		}
	}

	if len(owned) == 0 {
		p.x[id] = float64(p.slot) * (p.opts.NodeWidth + p.opts.NodeSep)
		p.slot++
		return
	}
	p.x[id] = (p.x[owned[0]] + p.x[owned[len(owned)-1]]) / 2
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalLayout converts a layout to JSON bytes for caching.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout decodes a layout written by MarshalLayout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	if l.Positions == nil {
		l.Positions = map[string]Position{}
	}
	if l.Orders == nil {
		l.Orders = map[int][]string{}
	}
	return l, nil
}
