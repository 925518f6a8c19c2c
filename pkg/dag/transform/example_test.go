package transform_test

import (
	"fmt"

	"github.com/matzehuels/jsonscope/pkg/dag"
	"github.com/matzehuels/jsonscope/pkg/dag/transform"
)

func ExampleAssignLayers() {
	// {"user": {"name": "Ada"}, "active": true} without row assignments
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "root"})
	_ = g.AddNode(dag.Node{ID: "root.user"})
	_ = g.AddNode(dag.Node{ID: "root.user.name"})
	_ = g.AddNode(dag.Node{ID: "root.active"})
	_ = g.AddEdge(dag.Edge{From: "root", To: "root.user"})
	_ = g.AddEdge(dag.Edge{From: "root.user", To: "root.user.name"})
	_ = g.AddEdge(dag.Edge{From: "root", To: "root.active"})

	rows := transform.AssignLayers(g)

	fmt.Println("rows:", rows)
	for _, r := range g.RowIDs() {
		fmt.Println(r, dag.NodeIDs(g.NodesInRow(r)))
	}
	// Output:
	// rows: 3
	// 0 [root]
	// 1 [root.user root.active]
	// 2 [root.user.name]
}
