// Package server exposes the document pipeline over HTTP.
//
// The API has a stateless endpoint that runs the pipeline once, and a set
// of session endpoints backed by in-memory workspaces:
//
//	POST   /api/v1/view                      run the pipeline once
//	POST   /api/v1/sessions                  create a workspace
//	GET    /api/v1/sessions/{id}             current state
//	DELETE /api/v1/sessions/{id}             drop the workspace
//	PUT    /api/v1/sessions/{id}/text        replace the text
//	PUT    /api/v1/sessions/{id}/query       change the search
//	POST   /api/v1/sessions/{id}/edit        edit a value by path
//	POST   /api/v1/sessions/{id}/format      pretty-print the text
//	POST   /api/v1/sessions/{id}/clear       empty the text
//	GET    /api/v1/sessions/{id}/export      export the document
//	GET    /api/v1/sessions/{id}/render      render the view (svg, dot, ...)
//	GET    /api/v1/sessions/{id}/ws          websocket with live updates
//	GET    /healthz                          liveness and build info
//	GET    /metrics                          Prometheus metrics
//
// Every change to a session is pushed to all websocket clients attached to
// it, whether it arrived over the websocket or the REST endpoints.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/jsonscope/pkg/observability"
	"github.com/matzehuels/jsonscope/pkg/pipeline"
	"github.com/matzehuels/jsonscope/pkg/session"
)

// Defaults for Config fields left empty.
const (
	DefaultAddr            = ":8080"
	DefaultCleanupInterval = time.Minute
	shutdownTimeout        = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// Runner executes the pipeline. Required.
	Runner *pipeline.Runner

	// Options apply to every pipeline run.
	Options pipeline.Options

	// SessionTTL is the idle lifetime of a session.
	SessionTTL time.Duration

	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	Logger *log.Logger
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	sessions *session.MemoryStore
	hub      *hub
	logger   *log.Logger
	router   chi.Router
}

// New creates a server. It does not start listening.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		cfg:      cfg,
		runner:   cfg.Runner,
		sessions: session.NewMemoryStore(cfg.SessionTTL),
		hub:      newHub(),
		logger:   cfg.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/view", s.handleView)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.loadSession)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/text", s.handleSetText)
			r.Put("/query", s.handleSetQuery)
			r.Post("/edit", s.handleEdit)
			r.Post("/format", s.handleFormat)
			r.Post("/clear", s.handleClear)
			r.Get("/export", s.handleExport)
			r.Get("/render", s.handleRender)
			r.Get("/ws", s.handleWebsocket)
		})
	})
	return r
}

// instrument reports every request to the HTTP hooks, labelled with the
// matched route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start))
	})
}

// sessionsExpired disconnects the websocket clients of sessions removed by
// a cleanup sweep.
func (s *Server) sessionsExpired(ctx context.Context, removed []string, active int) {
	for _, id := range removed {
		s.hub.closeSession(id)
	}
	if len(removed) > 0 {
		s.logger.Debug("expired sessions removed", "removed", len(removed), "active", active)
	}
	observability.HTTP().OnSessions(ctx, active)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sessions.Run(ctx, DefaultCleanupInterval, func(removed []string, active int) {
		s.sessionsExpired(ctx, removed, active)
	})

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	s.hub.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
