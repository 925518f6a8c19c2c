package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonscope/pkg/cache"
	"github.com/matzehuels/jsonscope/pkg/diff"
	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/graph"
	"github.com/matzehuels/jsonscope/pkg/layout"
	"github.com/matzehuels/jsonscope/pkg/match"
	"github.com/matzehuels/jsonscope/pkg/observability"
	"github.com/matzehuels/jsonscope/pkg/value"
	"github.com/matzehuels/jsonscope/pkg/view"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the explorer and the server all use it to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different inputs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Run executes the pipeline once without a cache and without logging.
func Run(in Input, opts Options) (*Result, error) {
	r := NewRunner(nil, nil, discardLogger())
	return r.Execute(context.Background(), in, opts)
}

// Execute runs parse → build → layout → diff → match for one input.
//
// Blank text yields an empty result and no error. A parse failure yields
// a result with Err set, and the same error is returned; no graph is
// built. Options errors are returned without a result.
func (r *Runner) Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()

	if strings.TrimSpace(in.Text) == "" {
		r.Logger.Debug("empty input")
		return emptyResult(in.Query), nil
	}

	// Stage 1: Parse
	parseStart := time.Now()
	doc, err := r.parse(in.Text)
	parseTime := time.Since(parseStart)
	hooks.OnParse(ctx, len(in.Text), parseTime, err)
	if err != nil {
		r.Logger.Debug("parse failed", "error", err)
		return failedResult(err, in.Query), err
	}

	result := &Result{Document: doc, Query: in.Query}
	result.Stats.Bytes = len(in.Text)
	result.Stats.ParseTime = parseTime

	// Stage 2: Build
	buildStart := time.Now()
	g := graph.Build(doc)
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	stats := g.Stats()
	result.Stats.NodeCount = stats.Nodes
	result.Stats.EdgeCount = stats.Edges
	result.Stats.MaxDepth = stats.MaxDepth
	result.Stats.Leaves = stats.Leaves
	hooks.OnBuild(ctx, stats.Nodes, stats.Edges, result.Stats.BuildTime)

	r.Logger.Debug("built graph",
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"depth", stats.MaxDepth,
		"duration", result.Stats.BuildTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	// Stage 4: Diff
	diffStart := time.Now()
	if focus, changed := diff.FirstDivergence(in.Previous, doc); changed {
		result.Focus = focus
	}
	result.Stats.DiffTime = time.Since(diffStart)
	hooks.OnDiff(ctx, focusID(result.Focus), result.Stats.DiffTime)

	// Stage 5: Match
	result.Matches = match.Match(g.Nodes, in.Query)
	hooks.OnMatch(ctx, result.Matches.Len())

	result.View = view.Build(g, l, result.Focus, in.Query, result.Matches)

	r.Logger.Info("processed document",
		"nodes", stats.Nodes,
		"focus", focusID(result.Focus),
		"matches", result.Matches.Len(),
		"layout_cached", layoutHit,
		"duration", result.Stats.Total())

	return result, nil
}

func (r *Runner) parse(text string) (value.Value, error) {
	if err := errs.ValidateDocumentSize(len(text)); err != nil {
		return value.Value{}, err
	}
	return value.Parse(text)
}

// ComputeLayoutWithCacheInfo computes the layout of g, using the cache
// keyed by the graph shape, and reports whether it was a cache hit.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (layout.Layout, bool, error) {
	opts.SetLayoutDefaults()
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	cacheKey := r.Keyer.LayoutKey(g.ShapeHash(), opts.LayoutKeyOpts())

	start := time.Now()
	hooks.OnLayoutStart(ctx, len(g.Nodes))

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := layout.UnmarshalLayout(data); err == nil && len(cached.Positions) == len(g.Nodes) {
			cacheHooks.OnCacheHit(ctx, keyTypeLayout)
			hooks.OnLayoutComplete(ctx, true, time.Since(start), nil)
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	} else if err != nil {
		r.Logger.Warn("layout cache read failed", "error", err)
	}
	cacheHooks.OnCacheMiss(ctx, keyTypeLayout)

	l, err := layout.FromGraph(g, opts.Layout)
	hooks.OnLayoutComplete(ctx, false, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if data, err := layout.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}
	return l, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g graph.Graph, opts Options) (layout.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo renders v in format, caching the artifact by the
// content of the view, and reports whether it was a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, v view.View, format string, opts Options) ([]byte, bool, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	cacheHooks := observability.Cache()

	viewData, err := json.Marshal(v)
	if err != nil {
		return nil, false, fmt.Errorf("serialize view for cache key: %w", err)
	}
	cacheKey := r.Keyer.ArtifactKey(cache.Hash(viewData), opts.ArtifactKeyOpts(format))

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cacheHooks.OnCacheHit(ctx, keyTypeArtifact)
		return data, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, keyTypeArtifact)

	start := time.Now()
	data, err := Render(ctx, v, format, opts)
	observability.Pipeline().OnRender(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("rendered view", "format", format, "bytes", len(data), "duration", time.Since(start))

	// JSON is cheaper to produce than to fetch.
	if format != FormatJSON {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			cacheHooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}
	return data, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, v view.View, format string, opts Options) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, v, format, opts)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func focusID(p value.Path) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func discardLogger() *log.Logger {
	var o Options
	o.SetLayoutDefaults()
	return o.Logger
}
