package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/jsonscope/pkg/dag"
)

// Metadata keys set on DAG nodes by [ToDAG].
const (
	MetaKind  = "kind"
	MetaLabel = "label"
	MetaColor = "color"
)

// =============================================================================
// Conversion
// =============================================================================

// ToDAG converts g into the layered graph consumed by the layout engine.
// Nodes and edges are added in graph order; rows are left at zero for
// transform.AssignLayers to fill in.
func ToDAG(g Graph) (*dag.DAG, error) {
	d := dag.New()
	for _, n := range g.Nodes {
		err := d.AddNode(dag.Node{
			ID: n.ID,
			Meta: dag.Metadata{
				MetaKind:  string(n.Kind),
				MetaLabel: n.DisplayValue,
				MetaColor: n.Color,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := d.AddEdge(dag.Edge{From: e.Source, To: e.Target}); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
	}
	return d, nil
}

// ShapeHash returns a SHA-256 digest of the node IDs and edges of g.
// Layouts depend only on this shape, so two documents that differ only in
// primitive values share a hash.
func (g Graph) ShapeHash() string {
	h := sha256.New()
	for _, n := range g.Nodes {
		io.WriteString(h, n.ID)
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, e := range g.Edges {
		io.WriteString(h, e.Source)
		h.Write([]byte{0})
		io.WriteString(h, e.Target)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as indented JSON to an io.Writer.
func WriteGraph(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
