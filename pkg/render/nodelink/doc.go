// Package nodelink renders document views as node-link diagrams.
//
// # Overview
//
// Nodes appear as rounded boxes filled with their kind color and connected
// by straight edges from container to child. Positions come from the
// layered layout, not from Graphviz: [ToDOT] pins every node with
// pos="x,y!" and [RenderSVG] runs the neato engine, which keeps pinned
// nodes in place and only draws.
//
// # Usage
//
//	dot := nodelink.ToDOT(v, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Emphasis
//
// The focused node (first change since the previous document) gets a thick
// red border. During a search, matching nodes get a yellow border and the
// rest are faded together with their incoming edges.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
