package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsonscope/pkg/render"
	"github.com/matzehuels/jsonscope/pkg/view"
)

// pointsPerInch converts layout pixels to Graphviz inches.
const pointsPerInch = 72.0

// maxLabel is the longest label, in runes, that fits a default box.
const maxLabel = 40

// Colors used for search and focus emphasis.
const (
	focusColor = "#f43f5e"
	matchColor = "#facc15"
	dimAlpha   = "40"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node path below the display value.
	Detailed bool

	// NodeWidth and NodeHeight size the boxes in pixels. Zero values
	// use the layout defaults.
	NodeWidth  float64
	NodeHeight float64
}

// ToDOT converts a view to Graphviz DOT. Every node is pinned at its layout
// position, so rendering with neato reproduces the computed layout instead
// of running a Graphviz layout.
//
// Nodes are filled with their kind color. The focused node gets a thick
// red border, matches a yellow border, and non-matching nodes are faded.
func ToDOT(v view.View, opts Options) string {
	w, h := opts.NodeWidth, opts.NodeHeight
	if w <= 0 {
		w = 200
	}
	if h <= 0 {
		h = 40
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  overlap=true;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, width=%s, height=%s, fontname=\"Helvetica\", fontsize=12, fontcolor=white, penwidth=1];\n",
		inches(w), inches(h))
	buf.WriteString("  edge [color=\"#94a3b8\", arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, n := range v.Nodes {
		// Graphviz puts the origin at the bottom left and pins centers.
		cx := n.Position.X + w/2
		cy := v.Height - n.Position.Y - h/2
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"", inches(cx), inches(cy)),
			fmt.Sprintf("tooltip=%q", n.ID),
		}
		attrs = append(attrs, fmtAttrs(n)...)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	dimmed := make(map[string]bool)
	for _, n := range v.Nodes {
		dimmed[n.ID] = n.IsDim
	}
	for _, e := range v.Edges {
		if dimmed[e.Target] {
			fmt.Fprintf(&buf, "  %q -> %q [color=\"#94a3b8%s\"];\n", e.Source, e.Target, dimAlpha)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n view.Node, detailed bool) string {
	label := n.Label + ": " + n.DisplayValue
	if n.ID == "root" || n.Label == n.DisplayValue {
		label = n.DisplayValue
	}
	if r := []rune(label); len(r) > maxLabel {
		label = string(r[:maxLabel-3]) + "..."
	}
	if detailed {
		label += "\n" + n.ID
	}
	return label
}

func fmtAttrs(n view.Node) []string {
	fill := n.Color
	if n.IsDim {
		fill += dimAlpha
	}
	attrs := []string{fmt.Sprintf("fillcolor=%q", fill)}
	switch {
	case n.IsFocus:
		attrs = append(attrs, fmt.Sprintf("color=%q", focusColor), "penwidth=4", "fontname=\"Helvetica-Bold\"")
	case n.IsMatch:
		attrs = append(attrs, fmt.Sprintf("color=%q", matchColor), "penwidth=3")
	default:
		attrs = append(attrs, fmt.Sprintf("color=%q", fill))
	}
	if n.IsDim {
		attrs = append(attrs, "fontcolor=\"#ffffff80\"")
	}
	return attrs
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

// RenderSVG renders a DOT graph produced by [ToDOT] to SVG using the
// in-process Graphviz neato engine, which honors pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
