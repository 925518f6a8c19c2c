package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jsonscope/pkg/buildinfo"
	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/export"
	"github.com/matzehuels/jsonscope/pkg/observability"
	"github.com/matzehuels/jsonscope/pkg/pipeline"
	"github.com/matzehuels/jsonscope/pkg/session"
	"github.com/matzehuels/jsonscope/pkg/value"
	"github.com/matzehuels/jsonscope/pkg/view"
)

// =============================================================================
// Request and response bodies
// =============================================================================

type viewRequest struct {
	Text     string  `json:"text"`
	Previous *string `json:"previous,omitempty"`
	Query    string  `json:"query,omitempty"`
}

type textRequest struct {
	Text string `json:"text"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type editRequest struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

type statsResponse struct {
	Bytes     int     `json:"bytes"`
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	MaxDepth  int     `json:"maxDepth"`
	Leaves    int     `json:"leaves"`
	LayoutHit bool    `json:"layoutCached"`
	Millis    float64 `json:"ms"`
}

type stateResponse struct {
	ID      string         `json:"id,omitempty"`
	Text    string         `json:"text"`
	Query   string         `json:"query"`
	View    view.View      `json:"view"`
	Stats   *statsResponse `json:"stats,omitempty"`
	Applied *bool          `json:"applied,omitempty"`
}

func newStats(res *pipeline.Result) *statsResponse {
	if !res.OK() {
		return nil
	}
	return &statsResponse{
		Bytes:     res.Stats.Bytes,
		Nodes:     res.Stats.NodeCount,
		Edges:     res.Stats.EdgeCount,
		MaxDepth:  res.Stats.MaxDepth,
		Leaves:    res.Stats.Leaves,
		LayoutHit: res.CacheInfo.LayoutHit,
		Millis:    float64(res.Stats.Total()) / float64(time.Millisecond),
	}
}

func stateOf(sess *session.Session) stateResponse {
	ws := sess.Workspace
	res := ws.Result()
	return stateResponse{
		ID:    sess.ID,
		Text:  ws.Text(),
		Query: ws.Query(),
		View:  res.View,
		Stats: newStats(res),
	}
}

// =============================================================================
// Stateless
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"build":    buildinfo.Get(),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errs.ValidateQuery(req.Query); err != nil {
		writeError(w, err)
		return
	}

	in := pipeline.Input{Text: req.Text, Query: req.Query}
	if req.Previous != nil && strings.TrimSpace(*req.Previous) != "" {
		prev, err := value.Parse(*req.Previous)
		if err != nil {
			writeError(w, errs.Wrap(errs.ErrCodeInvalidJSON, err, "previous document: %s", errs.UserMessage(err)))
			return
		}
		in.Previous = &prev
	}

	res, err := s.runner.Execute(r.Context(), in, s.cfg.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		Text:  req.Text,
		Query: req.Query,
		View:  res.View,
		Stats: newStats(res),
	})
}

// =============================================================================
// Sessions
// =============================================================================

type ctxKey int

const sessionKey ctxKey = 0

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// loadSession resolves {id} and stores the session in the request context.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !session.ValidID(id) {
			writeError(w, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id))
			return
		}
		sess, err := s.sessions.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, session.ErrExpired) {
				observability.HTTP().OnSessions(r.Context(), s.sessions.Len())
			}
			writeError(w, errs.Wrap(errs.ErrCodeSessionNotFound, err, "session %q not found", id))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text  string `json:"text"`
		Query string `json:"query"`
	}
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil && !errs.Is(err, errs.ErrCodeEmptyInput) {
			writeError(w, err)
			return
		}
	}
	if err := errs.ValidateQuery(req.Query); err != nil {
		writeError(w, err)
		return
	}

	ws := pipeline.NewWorkspace(s.runner, s.cfg.Options)
	ws.SetQuery(req.Query)
	if req.Text != "" {
		if res, err := ws.SetText(r.Context(), req.Text); res == nil {
			writeError(w, err)
			return
		}
	}
	sess, err := s.sessions.Create(r.Context(), ws)
	if err != nil {
		writeError(w, err)
		return
	}
	observability.HTTP().OnSessions(r.Context(), s.sessions.Len())
	s.logger.Debug("session created", "id", sess.ID)
	writeJSON(w, http.StatusCreated, stateOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateOf(sessionFrom(r.Context())))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, err)
		return
	}
	s.hub.closeSession(sess.ID)
	observability.HTTP().OnSessions(r.Context(), s.sessions.Len())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r.Context())
	if err := s.setText(r.Context(), sess, req.Text); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r.Context())
	if err := s.setQuery(sess, req.Query); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r.Context())
	applied, err := s.edit(r.Context(), sess, req.Path, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	state := stateOf(sess)
	state.Applied = &applied
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	changed, err := s.format(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	state := stateOf(sess)
	state.Applied = &changed
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Workspace.Clear()
	s.publish(sess)
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	exp, err := export.Lookup(format)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, ok := sess.Workspace.Document()
	if !ok {
		writeError(w, errs.New(errs.ErrCodeEmptyInput, "no document to export"))
		return
	}
	data, err := exp.Export(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="document`+exp.Extension()+`"`)
	_, _ = w.Write(data)
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	res := sess.Workspace.Result()
	if !res.OK() {
		writeError(w, errs.New(errs.ErrCodeEmptyInput, "nothing to render"))
		return
	}
	data, hit, err := s.runner.RenderWithCacheInfo(r.Context(), res.View, format, s.cfg.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(data)
}

// =============================================================================
// Session actions shared by REST and websocket
// =============================================================================

func (s *Server) setText(ctx context.Context, sess *session.Session, text string) error {
	if err := errs.ValidateDocumentSize(len(text)); err != nil {
		return err
	}
	// Parse errors are part of the session state, not request failures.
	if res, err := sess.Workspace.SetText(ctx, text); res == nil {
		return err
	}
	s.publish(sess)
	return nil
}

func (s *Server) setQuery(sess *session.Session, query string) error {
	if err := errs.ValidateQuery(query); err != nil {
		return err
	}
	sess.Workspace.SetQuery(query)
	s.publish(sess)
	return nil
}

func (s *Server) edit(ctx context.Context, sess *session.Session, path, raw string) (bool, error) {
	if err := errs.ValidateEditPath(path); err != nil {
		return false, err
	}
	res, applied, err := sess.Workspace.Edit(ctx, value.ParsePath(path), raw)
	if res == nil {
		return false, err
	}
	if applied {
		s.publish(sess)
	}
	return applied, nil
}

func (s *Server) format(ctx context.Context, sess *session.Session) (bool, error) {
	_, changed, err := sess.Workspace.Format(ctx)
	if err != nil {
		return false, err
	}
	if changed {
		s.publish(sess)
	}
	return changed, nil
}

// publish pushes the session state to its websocket clients.
func (s *Server) publish(sess *session.Session) {
	state := stateOf(sess)
	s.hub.publish(sess.ID, outbound{Type: msgView, State: &state})
}
