package graph_test

import (
	"fmt"

	"github.com/matzehuels/jsonscope/pkg/graph"
	"github.com/matzehuels/jsonscope/pkg/value"
)

func ExampleBuild() {
	doc := value.MustParse(`{"users": [{"id": 1}], "ok": true}`)
	g := graph.Build(doc)

	for _, n := range g.Nodes {
		fmt.Printf("%-16s %-8s %s\n", n.ID, n.Kind, n.DisplayValue)
	}
	fmt.Println("edges:", len(g.Edges))
	// Output:
	// root             object   Object{2}
	// root.users       array    Array[1]
	// root.users.0     object   Object{1}
	// root.users.0.id  number   1
	// root.ok          boolean  true
	// edges: 4
}

func ExampleToDAG() {
	g := graph.Build(value.MustParse(`[10, 20]`))
	d, err := graph.ToDAG(g)
	if err != nil {
		panic(err)
	}
	fmt.Println(d.Children("root"))
	// Output:
	// [root.0 root.1]
}
