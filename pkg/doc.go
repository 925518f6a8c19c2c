// Package pkg provides the core libraries of jsonscope, a JSON graph explorer.
//
// # Overview
//
// jsonscope turns raw JSON text into a graph of typed nodes, lays the graph
// out top to bottom, marks the first node that changed since the previous
// version of the document and highlights the nodes matching a search. Values
// can be edited in place by path, which re-serializes the document and runs
// the whole pipeline again.
//
// # Architecture
//
// The data flow of one pipeline run:
//
//	raw text ──▶ [value] (parse)
//	                │
//	                ├──▶ [diff] (first divergence from the previous document)
//	                ▼
//	             [graph] (one node per value, typed by [classify])
//	                │
//	                ▼
//	             [dag] + [layout] (rows, order, coordinates)
//	                │
//	                ├──▶ [match] (search highlighting)
//	                ▼
//	             [view] ──▶ [render/nodelink] / [export] (DOT, SVG, PNG, PDF, JSON)
//
// [pipeline] wires the stages together behind a [cache] and reports them to
// [observability] hooks. [mutate] applies path edits to a parsed document.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Input{
//	    Text:  `{"user": {"name": "Ada"}}`,
//	    Query: "ada",
//	}, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Focus, res.Matches.Len()) // root 1
//
// For an editing session keep a [pipeline.Workspace], which remembers the
// last accepted document so every change is focused:
//
//	ws := pipeline.NewWorkspace(runner, pipeline.Options{})
//	ws.SetText(ctx, `{"a": 1}`)
//	ws.SetText(ctx, `{"a": 2}`)
//	fmt.Println(ws.Focus()) // root.a
//
// # Main Packages
//
// [value] - Ordered JSON value model, parser, encoder and node paths.
//
// [classify] - Maps a value to its kind, display string and color.
//
// [graph] - Builds the node and edge lists from a document.
//
// [dag] - Row-based directed graph with crossing counts; [dag/transform]
// assigns rows.
//
// [layout] - Computes node coordinates and the canvas size.
//
// [diff] - Finds the first path at which two documents differ.
//
// [match] - Case-insensitive search over labels and display values.
//
// [mutate] - Replaces the value at a path with parsed or literal text.
//
// [view] - The renderer-facing result of a pipeline run.
//
// [render/nodelink] - Graphviz DOT with pinned positions, rendered to SVG.
//
// [cache] - File, memory, Redis and null backends for layouts and artifacts.
//
// [config] - TOML configuration for the CLI and server.
//
// [session] - In-memory editing sessions for the HTTP server.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/graph
// [value]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/value
// [classify]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/classify
// [dag]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/layout
// [diff]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/diff
// [match]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/match
// [mutate]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/mutate
// [view]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/view
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/render/nodelink
// [export]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/pipeline
// [pipeline.Workspace]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/pipeline#Workspace
// [cache]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/config
// [session]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/jsonscope/pkg/observability
package pkg
