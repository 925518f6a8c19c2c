package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
)

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) twice = %v, want ErrDuplicateNodeID", err)
	}
	n, _ := g.Node("a")
	if n.Meta == nil {
		t.Error("Meta should be initialized")
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(x→a) = %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(a→x) = %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"root", "root.z", "root.a", "root.m", "root.a.0"}
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	if got := NodeIDs(g.Nodes()); !slices.Equal(got, ids) {
		t.Errorf("Nodes() = %v, want %v", got, ids)
	}
	for i, n := range g.Nodes() {
		if n.Seq() != i {
			t.Errorf("%s.Seq() = %d, want %d", n.ID, n.Seq(), i)
		}
	}

	g.SetRows(map[string]int{"root": 0, "root.z": 1, "root.a": 1, "root.m": 1, "root.a.0": 2})
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"root.z", "root.a", "root.m"}) {
		t.Errorf("NodesInRow(1) = %v", got)
	}
	if got := g.RowIDs(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("RowIDs() = %v", got)
	}
	if g.MaxRow() != 2 {
		t.Errorf("MaxRow() = %d, want 2", g.MaxRow())
	}
}

func TestSetRowsKeepsUnlistedNodes(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Row: 3})
	_ = g.AddNode(Node{ID: "b"})
	g.SetRows(map[string]int{"b": 1})
	a, _ := g.Node("a")
	if a.Row != 3 {
		t.Errorf("a.Row = %d, want 3", a.Row)
	}
	if g.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", g.RowCount())
	}
}

func TestEmptyGraph(t *testing.T) {
	g := New()
	if g.MaxRow() != 0 || g.RowCount() != 0 || len(g.Roots()) != 0 || len(g.Leaves()) != 0 {
		t.Error("empty graph should have no rows, sources or sinks")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() on empty graph = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		rows  map[string]int
		edges [][2]string
		want  error
	}{
		{
			name:  "valid tree",
			rows:  map[string]int{"r": 0, "a": 1, "b": 1, "c": 2},
			edges: [][2]string{{"r", "a"}, {"r", "b"}, {"a", "c"}},
		},
		{
			name:  "skip edge allowed",
			rows:  map[string]int{"r": 0, "a": 1, "c": 2},
			edges: [][2]string{{"r", "a"}, {"a", "c"}, {"r", "c"}},
		},
		{
			name:  "same row",
			rows:  map[string]int{"r": 0, "a": 0},
			edges: [][2]string{{"r", "a"}},
			want:  ErrUpwardEdge,
		},
		{
			name:  "upward",
			rows:  map[string]int{"r": 1, "a": 0},
			edges: [][2]string{{"r", "a"}},
			want:  ErrUpwardEdge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for _, id := range []string{"r", "a", "b", "c"} {
				if row, ok := tt.rows[id]; ok {
					_ = g.AddNode(Node{ID: id, Row: row})
				}
			}
			for _, e := range tt.edges {
				if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
					t.Fatal(err)
				}
			}
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckAcyclic(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddNode(Node{ID: "c"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "c"})
	if err := g.CheckAcyclic(); err != nil {
		t.Errorf("CheckAcyclic() = %v, want nil", err)
	}
	_ = g.AddEdge(Edge{From: "c", To: "a"})
	if err := g.CheckAcyclic(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("CheckAcyclic() = %v, want ErrGraphHasCycle", err)
	}
}

func TestCheckAcyclicDeepChain(t *testing.T) {
	g := New()
	prev := "root"
	_ = g.AddNode(Node{ID: prev})
	for i := range 100000 {
		id := fmt.Sprintf("n%d", i)
		_ = g.AddNode(Node{ID: id})
		_ = g.AddEdge(Edge{From: prev, To: id})
		prev = id
	}
	if err := g.CheckAcyclic(); err != nil {
		t.Errorf("CheckAcyclic() on a deep chain = %v", err)
	}
}

func TestErrorsNameTheNode(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "root.a"})
	err := g.AddNode(Node{ID: "root.a"})
	if !errors.Is(err, ErrDuplicateNodeID) || !strings.Contains(err.Error(), `"root.a"`) {
		t.Errorf("AddNode duplicate = %v", err)
	}
	err = g.AddEdge(Edge{From: "root.a", To: "root.b"})
	if !errors.Is(err, ErrUnknownTargetNode) || !strings.Contains(err.Error(), `"root.b"`) {
		t.Errorf("AddEdge unknown target = %v", err)
	}
}

func TestCountCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"r", "a", "b", "a1", "b1"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "r", To: "a"})
	_ = g.AddEdge(Edge{From: "r", To: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "a1"})
	_ = g.AddEdge(Edge{From: "b", To: "b1"})

	ordered := map[int][]string{0: {"r"}, 1: {"a", "b"}, 2: {"a1", "b1"}}
	if got := CountCrossings(g, ordered); got != 0 {
		t.Errorf("CountCrossings(ordered) = %d, want 0", got)
	}
	swapped := map[int][]string{0: {"r"}, 1: {"a", "b"}, 2: {"b1", "a1"}}
	if got := CountCrossings(g, swapped); got != 1 {
		t.Errorf("CountCrossings(swapped) = %d, want 1", got)
	}
}
