// Package pipeline turns document text into a renderable view.
//
// This package implements the parse → build → layout → diff → match
// pipeline shared by the CLI, the terminal explorer and the HTTP server. By
// centralizing this logic, every entry point reports the same focus, the same
// matches and the same coordinates for the same input.
//
// # Architecture
//
// One run takes (text, previous document, query) and produces:
//
//  1. Parse: the document, or a parse error that halts the run
//  2. Build: the node/edge graph (graph.Build)
//  3. Layout: coordinates for every node (layout.Compute), cached by shape
//  4. Diff: the first divergence from the previous document (focus)
//  5. Match: the node IDs matching the query
//
// and finally a [view.View] combining all of them. Every stage is a pure
// function of its inputs; the only state lives in [Workspace], which owns
// the document of record between runs.
//
// # Usage
//
// One-shot, without caching:
//
//	res, err := pipeline.Run(pipeline.Input{Text: text}, pipeline.Options{})
//
// With a cache and logging:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Input{Text: text, Previous: prev, Query: q}, opts)
//
// Stateful editing:
//
//	ws := pipeline.NewWorkspace(runner, opts)
//	ws.SetText(ctx, text)
//	ws.Edit(ctx, value.ParsePath("root.users.0.id"), "2")
//	focus := ws.Focus() // root.users.0.id
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonscope/pkg/cache"
	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/graph"
	"github.com/matzehuels/jsonscope/pkg/layout"
	"github.com/matzehuels/jsonscope/pkg/match"
	"github.com/matzehuels/jsonscope/pkg/value"
	"github.com/matzehuels/jsonscope/pkg/view"
)

// Format constants for rendered outputs.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Layout sizes node boxes and gaps. Zero fields take the defaults.
	Layout layout.Options `json:"layout"`

	// Detailed adds node paths to rendered labels.
	Detailed bool `json:"detailed,omitempty"`

	// Scale is the PNG resolution factor (default 2).
	Scale float64 `json:"scale,omitempty"`

	// Logger receives stage timings. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultScale is the default PNG scale factor.
const DefaultScale = 2.0

// ValidateAndSetDefaults applies defaults and validates the options.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "scale must be positive")
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	o.Layout.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		NodeWidth:  o.Layout.NodeWidth,
		NodeHeight: o.Layout.NodeHeight,
		NodeSep:    o.Layout.NodeSep,
		RankSep:    o.Layout.RankSep,
	}
}

// ArtifactKeyOpts returns cache key options for a rendered artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// =============================================================================
// Input and Result
// =============================================================================

// Input is one pipeline invocation.
type Input struct {
	// Text is the raw document text.
	Text string

	// Previous is the last accepted document, nil on first load.
	Previous *value.Value

	// Query is the search string; blank disables highlighting.
	Query string
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Empty is set when the text was blank. Nothing else is populated.
	Empty bool

	// Err is the parse error of a failed run.
	Err error

	// Document is the parsed value.
	Document value.Value

	// Graph and Layout are the built graph and its coordinates.
	Graph  graph.Graph
	Layout layout.Layout

	// Focus is the first divergence from the previous document, nil when
	// nothing changed.
	Focus value.Path

	// Matches holds the node IDs matching Query.
	Query   string
	Matches match.Set

	// View is the renderer output.
	View view.View

	Stats     Stats
	CacheInfo CacheInfo
}

// OK reports whether the run produced a document.
func (r *Result) OK() bool { return r != nil && !r.Empty && r.Err == nil }

// Highlight returns a copy of r re-evaluated for a new query. The focus and
// layout are reused, so changing the search never moves the focus.
func (r *Result) Highlight(query string) *Result {
	out := *r
	out.Query = query
	out.Matches = match.Match(r.Graph.Nodes, query)
	out.View = view.Highlight(r.View, query, out.Matches)
	return &out
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Bytes      int
	NodeCount  int
	EdgeCount  int
	MaxDepth   int
	Leaves     int
	ParseTime  time.Duration
	BuildTime  time.Duration
	LayoutTime time.Duration
	DiffTime   time.Duration
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.BuildTime + s.LayoutTime + s.DiffTime
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether the rendered artifact came from cache
}

func emptyResult(query string) *Result {
	return &Result{
		Empty:   true,
		Query:   query,
		Matches: match.Set{},
		View:    view.View{Nodes: []view.Node{}, Edges: []view.Edge{}, Query: query},
	}
}

func failedResult(err error, query string) *Result {
	return &Result{
		Err:     err,
		Query:   query,
		Matches: match.Set{},
		View:    view.Failed(errs.UserMessage(err)),
	}
}
