// Package export hands the current document to output collaborators.
//
// An [Exporter] receives the parsed document unmodified and returns a
// binary artifact. The package ships three of them:
//
//   - [JSONExporter]: the document pretty-printed with two-space indent
//   - [GraphExporter]: the node/edge graph as JSON
//   - [DOTExporter]: the laid out graph as Graphviz DOT
//
// Additional formats (spreadsheets, for example) plug in by implementing
// the same interface and registering with [Register].
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/graph"
	"github.com/matzehuels/jsonscope/pkg/layout"
	"github.com/matzehuels/jsonscope/pkg/render/nodelink"
	"github.com/matzehuels/jsonscope/pkg/value"
	"github.com/matzehuels/jsonscope/pkg/view"
)

// Exporter converts a document into an artifact.
type Exporter interface {
	// Export returns the artifact for doc.
	Export(ctx context.Context, doc value.Value) ([]byte, error)

	// ContentType is the MIME type of the artifact.
	ContentType() string

	// Extension is the file name extension, including the dot.
	Extension() string
}

// JSONExporter writes the document as indented JSON.
type JSONExporter struct{}

func (JSONExporter) Export(_ context.Context, doc value.Value) ([]byte, error) {
	return append(value.MarshalIndent(doc, "  "), '\n'), nil
}

func (JSONExporter) ContentType() string { return "application/json" }
func (JSONExporter) Extension() string   { return ".json" }

// GraphExporter writes the nodes and edges built from the document.
type GraphExporter struct{}

func (GraphExporter) Export(_ context.Context, doc value.Value) ([]byte, error) {
	return graph.MarshalGraph(graph.Build(doc))
}

func (GraphExporter) ContentType() string { return "application/json" }
func (GraphExporter) Extension() string   { return ".graph.json" }

// DOTExporter writes the document graph as Graphviz DOT with every node
// pinned at its layered position.
type DOTExporter struct {
	Layout   layout.Options
	Detailed bool
}

func (e DOTExporter) Export(_ context.Context, doc value.Value) ([]byte, error) {
	opts := e.Layout
	opts.SetDefaults()

	g := graph.Build(doc)
	l, err := layout.FromGraph(g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	v := view.Build(g, l, nil, "", nil)
	dot := nodelink.ToDOT(v, nodelink.Options{
		Detailed:   e.Detailed,
		NodeWidth:  opts.NodeWidth,
		NodeHeight: opts.NodeHeight,
	})
	return []byte(dot), nil
}

func (DOTExporter) ContentType() string { return "text/vnd.graphviz" }
func (DOTExporter) Extension() string   { return ".dot" }

// =============================================================================
// Registry
// =============================================================================

var (
	mu        sync.RWMutex
	exporters = map[string]Exporter{
		"json":  JSONExporter{},
		"graph": GraphExporter{},
		"dot":   DOTExporter{},
	}
)

// Register adds or replaces the exporter for name.
func Register(name string, e Exporter) {
	mu.Lock()
	defer mu.Unlock()
	exporters[name] = e
}

// Lookup returns the exporter registered for name.
func Lookup(name string) (Exporter, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := exporters[name]
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown export format %q (available: %v)", name, namesLocked())
	}
	return e, nil
}

// Names returns the registered format names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(exporters))
	for n := range exporters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Writers
// =============================================================================

// Write exports doc with e and writes the artifact to w.
func Write(ctx context.Context, e Exporter, doc value.Value, w io.Writer) error {
	data, err := e.Export(ctx, doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// WriteFile exports doc with e to a file at path.
func WriteFile(ctx context.Context, e Exporter, doc value.Value, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(ctx, e, doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
