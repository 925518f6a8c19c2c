// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/jsonscope/pkg/observability"
)

const namespace = "jsonscope"

// Metrics holds every collector. It implements observability.PipelineHooks,
// observability.CacheHooks and observability.HTTPHooks.
type Metrics struct {
	parses          *prometheus.CounterVec
	parseDuration   prometheus.Histogram
	documentBytes   prometheus.Histogram
	graphNodes      prometheus.Histogram
	layouts         *prometheus.CounterVec
	layoutDuration  prometheus.Histogram
	focusChanges    *prometheus.CounterVec
	searches        prometheus.Counter
	searchMatches   prometheus.Histogram
	edits           *prometheus.CounterVec
	renders         *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	cacheOps        *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	sessions        prometheus.Gauge
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates the collectors and registers them with reg. Collectors that
// are already registered are reused, so New may be called more than once
// with the same registry.
func New(reg prometheus.Registerer) *Metrics {
	m := Metrics{}
	m.parses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parses_total",
		Help:      "Number of document parses by result",
	}, []string{"result"})

	m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "parse_duration_seconds",
		Help:      "Time spent parsing document text",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	m.documentBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "document_bytes",
		Help:      "Size of parsed documents",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
	})

	m.graphNodes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "graph_nodes",
		Help:      "Number of nodes built per document",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
	})

	m.layouts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "layouts_total",
		Help:      "Number of layouts by source and result",
	}, []string{"source", "result"})

	m.layoutDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "layout_duration_seconds",
		Help:      "Time spent computing layouts, including cache lookups",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	m.focusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "diffs_total",
		Help:      "Number of divergence checks by outcome",
	}, []string{"outcome"})

	m.searches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Number of search evaluations",
	})

	m.searchMatches = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_matches",
		Help:      "Number of matching nodes per search",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	m.edits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edits_total",
		Help:      "Number of path edits by outcome",
	}, []string{"outcome"})

	m.renders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renders_total",
		Help:      "Number of rendered artifacts by format and result",
	}, []string{"format", "result"})

	m.renderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "render_duration_seconds",
		Help:      "Time spent rendering artifacts",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"format"})

	m.cacheOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_operations_total",
		Help:      "Cache lookups and writes by key type and operation",
	}, []string{"key_type", "op"})

	m.cacheBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_written_bytes_total",
		Help:      "Bytes written to the cache by key type",
	}, []string{"key_type"})

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP responses by method, route and status code",
	}, []string{"method", "route", "code"})

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.errors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Server errors outside the request cycle by route",
	}, []string{"route"})

	m.sessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of live explorer sessions",
	})

	m.parses = mustRegisterOrGet(reg, m.parses)
	m.parseDuration = mustRegisterOrGet(reg, m.parseDuration)
	m.documentBytes = mustRegisterOrGet(reg, m.documentBytes)
	m.graphNodes = mustRegisterOrGet(reg, m.graphNodes)
	m.layouts = mustRegisterOrGet(reg, m.layouts)
	m.layoutDuration = mustRegisterOrGet(reg, m.layoutDuration)
	m.focusChanges = mustRegisterOrGet(reg, m.focusChanges)
	m.searches = mustRegisterOrGet(reg, m.searches)
	m.searchMatches = mustRegisterOrGet(reg, m.searchMatches)
	m.edits = mustRegisterOrGet(reg, m.edits)
	m.renders = mustRegisterOrGet(reg, m.renders)
	m.renderDuration = mustRegisterOrGet(reg, m.renderDuration)
	m.cacheOps = mustRegisterOrGet(reg, m.cacheOps)
	m.cacheBytes = mustRegisterOrGet(reg, m.cacheBytes)
	m.requests = mustRegisterOrGet(reg, m.requests)
	m.requestDuration = mustRegisterOrGet(reg, m.requestDuration)
	m.errors = mustRegisterOrGet(reg, m.errors)
	m.sessions = mustRegisterOrGet(reg, m.sessions)
	return &m
}

// Install registers m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func mustRegisterOrGet[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// Pipeline
// =============================================================================

func (m *Metrics) OnParse(_ context.Context, size int, d time.Duration, err error) {
	m.parses.WithLabelValues(result(err)).Inc()
	m.parseDuration.Observe(d.Seconds())
	if err == nil {
		m.documentBytes.Observe(float64(size))
	}
}

func (m *Metrics) OnBuild(_ context.Context, nodes, _ int, _ time.Duration) {
	m.graphNodes.Observe(float64(nodes))
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, cached bool, d time.Duration, err error) {
	source := "computed"
	if cached {
		source = "cache"
	}
	m.layouts.WithLabelValues(source, result(err)).Inc()
	m.layoutDuration.Observe(d.Seconds())
}

func (m *Metrics) OnDiff(_ context.Context, focus string, _ time.Duration) {
	outcome := "changed"
	if focus == "" {
		outcome = "unchanged"
	}
	m.focusChanges.WithLabelValues(outcome).Inc()
}

func (m *Metrics) OnMatch(_ context.Context, matches int) {
	m.searches.Inc()
	m.searchMatches.Observe(float64(matches))
}

func (m *Metrics) OnEdit(_ context.Context, applied bool) {
	outcome := "applied"
	if !applied {
		outcome = "ignored"
	}
	m.edits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) OnRender(_ context.Context, format string, d time.Duration, err error) {
	m.renders.WithLabelValues(format, result(err)).Inc()
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

// =============================================================================
// Cache
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, route string, _ error) {
	m.errors.WithLabelValues(route).Inc()
}

func (m *Metrics) OnSessions(_ context.Context, active int) {
	m.sessions.Set(float64(active))
}
