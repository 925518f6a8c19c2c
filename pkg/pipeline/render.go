package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/jsonscope/pkg/render/nodelink"
	"github.com/matzehuels/jsonscope/pkg/view"
)

// Render produces one artifact of v in format.
//
// JSON is the view itself. DOT carries pinned node positions, so SVG, PNG
// and PDF output keep the coordinates of the layered layout.
func Render(ctx context.Context, v view.View, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return json.MarshalIndent(v, "", "  ")
	}

	dot := nodelink.ToDOT(v, nodelink.Options{
		Detailed:   opts.Detailed,
		NodeWidth:  opts.Layout.NodeWidth,
		NodeHeight: opts.Layout.NodeHeight,
	})

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatDOT:
		data = []byte(dot)
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// RenderAll produces one artifact per format.
func RenderAll(ctx context.Context, v view.View, formats []string, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := Render(ctx, v, f, opts)
		if err != nil {
			return nil, err
		}
		artifacts[f] = data
	}
	return artifacts, nil
}
