package dag

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Errors returned by graph construction and validation. They are wrapped
// with the offending node or edge; test with [errors.Is].
var (
	ErrInvalidNodeID     = errors.New("node ID must not be empty")
	ErrDuplicateNodeID   = errors.New("duplicate node ID")
	ErrUnknownSourceNode = errors.New("unknown source node")
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUpwardEdge means an edge does not point to a strictly lower row.
	// Layered drawings route every edge downward.
	ErrUpwardEdge = errors.New("edges must point to a lower row")

	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata carries renderer hints on a node, such as the JSON kind.
type Metadata map[string]any

// Node is a vertex with an assigned row (0 is the top).
type Node struct {
	ID   string
	Row  int
	Meta Metadata // never nil once added

	seq int
}

// Seq returns the position at which the node was added to its graph.
// Layout code uses it to keep sibling order stable.
func (n Node) Seq() int { return n.seq }

// Edge is a directed connection from a container to one of its values.
type Edge struct {
	From string
	To   string
}

// DAG is a directed acyclic graph organized into rows. It remembers the order
// in which nodes and edges were added: [DAG.Nodes], [DAG.Children] and
// [DAG.NodesInRow] all report insertion order, which keeps layouts of equal
// documents identical.
//
// Use [New]; the zero value is not usable. A DAG is not safe for concurrent
// mutation.
type DAG struct {
	nodes    map[string]*Node
	order    []*Node
	edges    int
	outgoing map[string][]string
	incoming map[string][]string
	rows     map[int][]*Node
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		rows:     make(map[int][]*Node),
	}
}

// AddNode adds n and indexes it under n.Row.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	n.seq = len(d.order)
	node := &n
	d.nodes[n.ID] = node
	d.order = append(d.order, node)
	d.rows[n.Row] = append(d.rows[n.Row], node)
	return nil
}

// SetRows moves the listed nodes to new rows and rebuilds the row index in
// insertion order. Unlisted nodes keep their row.
func (d *DAG) SetRows(rows map[string]int) {
	d.rows = make(map[int][]*Node, len(d.rows))
	for _, n := range d.order {
		if r, ok := rows[n.ID]; ok {
			n.Row = r
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// AddEdge connects two existing nodes. Rows are not checked here; call
// [DAG.Validate] once rows are assigned.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSourceNode, e.From)
	}
	if _, ok := d.nodes[e.To]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTargetNode, e.To)
	}
	d.edges++
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// Nodes returns all nodes in insertion order. The pointers are live.
func (d *DAG) Nodes() []*Node { return slices.Clone(d.order) }

func (d *DAG) NodeCount() int { return len(d.order) }
func (d *DAG) EdgeCount() int { return d.edges }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Children returns the targets of id's edges in insertion order. The slice
// must not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the sources of edges into id. A document node has at most
// one.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// NodesInRow returns the nodes of one row in insertion order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

func (d *DAG) RowCount() int { return len(d.rows) }

// RowIDs returns the occupied rows in ascending order.
func (d *DAG) RowIDs() []int { return slices.Sorted(maps.Keys(d.rows)) }

// MaxRow returns the lowest occupied row, or 0 for an empty graph.
func (d *DAG) MaxRow() int {
	ids := d.RowIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

// Roots returns the nodes without parents in insertion order. A document
// graph has exactly one.
func (d *DAG) Roots() []*Node {
	return d.filter(func(n *Node) bool { return len(d.incoming[n.ID]) == 0 })
}

// Leaves returns the nodes without children in insertion order: the
// primitive values and empty containers of a document.
func (d *DAG) Leaves() []*Node {
	return d.filter(func(n *Node) bool { return len(d.outgoing[n.ID]) == 0 })
}

func (d *DAG) filter(keep func(*Node) bool) []*Node {
	var out []*Node
	for _, n := range d.order {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks that every edge points to a strictly lower row and that
// the graph has no cycle.
func (d *DAG) Validate() error {
	for _, from := range d.order {
		for _, to := range d.outgoing[from.ID] {
			if d.nodes[to].Row <= from.Row {
				return fmt.Errorf("%w: %s (row %d) -> %s (row %d)",
					ErrUpwardEdge, from.ID, from.Row, to, d.nodes[to].Row)
			}
		}
	}
	return d.CheckAcyclic()
}

// CheckAcyclic reports ErrGraphHasCycle when some nodes can never be
// reached in topological order. It ignores rows, so it can run before
// layering, and does not recurse, so deeply nested documents are fine.
func (d *DAG) CheckAcyclic() error {
	pending := make(map[string]int, len(d.order))
	var ready []string
	for _, n := range d.order {
		pending[n.ID] = len(d.incoming[n.ID])
		if pending[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	visited := 0
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		visited++
		for _, child := range d.outgoing[id] {
			if pending[child]--; pending[child] == 0 {
				ready = append(ready, child)
			}
		}
	}
	if visited < len(d.order) {
		return fmt.Errorf("%w (%d nodes unreachable in topological order)", ErrGraphHasCycle, len(d.order)-visited)
	}
	return nil
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs returns the IDs of nodes in order.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
