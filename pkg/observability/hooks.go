// Package observability carries instrumentation events out of the library
// packages without tying them to a metrics backend.
//
// Three hook sets exist: [PipelineHooks] for parse, build, layout, diff,
// search, edit and render; [CacheHooks] for cache traffic; [HTTPHooks] for
// the explorer server. Each defaults to a no-op. A binary swaps in a real
// implementation once at startup; the Prometheus one lives in
// internal/metrics:
//
//	m := metrics.New(prometheus.DefaultRegisterer)
//	m.Install()
//	defer observability.Reset()
//
// Library code reads the current hooks at the call site:
//
//	start := time.Now()
//	doc, err := value.Parse(text)
//	observability.Pipeline().OnParse(ctx, len(text), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the document pipeline.
type PipelineHooks interface {
	// OnParse records a parse of size bytes of document text.
	OnParse(ctx context.Context, size int, duration time.Duration, err error)
	OnBuild(ctx context.Context, nodes, edges int, duration time.Duration)

	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, cached bool, duration time.Duration, err error)

	// OnDiff records a divergence check. focus is empty when nothing changed.
	OnDiff(ctx context.Context, focus string, duration time.Duration)
	OnMatch(ctx context.Context, matches int)
	OnEdit(ctx context.Context, applied bool)

	// OnRender records rendering of a view into format (dot, svg, json).
	OnRender(ctx context.Context, format string, duration time.Duration, err error)
}

// CacheHooks receives cache traffic. kind is the key family, such as
// "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives events from the explorer server. route is the matched
// chi pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a failure outside the request cycle, such as a
	// broken websocket.
	OnError(ctx context.Context, route string, err error)

	// OnSessions records the number of live sessions.
	OnSessions(ctx context.Context, active int)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParse(context.Context, int, time.Duration, error)           {}
func (NoopPipelineHooks) OnBuild(context.Context, int, int, time.Duration)             {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                           {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, bool, time.Duration, error) {}
func (NoopPipelineHooks) OnDiff(context.Context, string, time.Duration)                {}
func (NoopPipelineHooks) OnMatch(context.Context, int)                                 {}
func (NoopPipelineHooks) OnEdit(context.Context, bool)                                 {}
func (NoopPipelineHooks) OnRender(context.Context, string, time.Duration, error)       {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, error)                         {}
func (NoopHTTPHooks) OnSessions(context.Context, int)                                {}

// slot holds the active implementation of one hook set. Reads happen on
// every pipeline run, so they take no lock.
type slot[T any] struct {
	v    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) set(h T) { s.v.Store(&h) }
func (s *slot[T]) reset()  { s.v.Store(nil) }

var (
	pipelineSlot = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheSlot    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot     = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.set(h)
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func HTTP() HTTPHooks         { return httpSlot.get() }

// Reset puts the no-op hooks back.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
