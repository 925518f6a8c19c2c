// Package render turns document views into drawable artifacts.
//
// The [nodelink] subpackage converts a view into Graphviz DOT with every
// node pinned at its computed position and renders SVG in process. This
// package converts SVG to PDF or PNG with the external rsvg-convert tool
// (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(v, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When rsvg-convert is not installed, the conversions fail with an
// UNSUPPORTED error.
package render
