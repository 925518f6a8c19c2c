package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/jsonscope/internal/metrics"
	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/observability"
	"github.com/matzehuels/jsonscope/pkg/pipeline"
)

func newTestServer(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics.New(reg).Install()
	t.Cleanup(observability.Reset)

	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Config{
		Runner:   pipeline.NewRunner(nil, nil, logger),
		Gatherer: reg,
		Logger:   logger,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, reg
}

func do(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeState(t *testing.T, data []byte) stateResponse {
	t.Helper()
	var st stateResponse
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decode state: %v\n%s", err, data)
	}
	return st
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, data := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), `"status":"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, data)
	}
}

func TestView(t *testing.T) {
	ts, _ := newTestServer(t)

	prev := `{"a": [1, 2, 3]}`
	resp, data := do(t, http.MethodPost, ts.URL+"/api/v1/view", viewRequest{
		Text:     `{"a": [1, 9, 3]}`,
		Previous: &prev,
		Query:    "9",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	st := decodeState(t, data)
	if st.View.Focus != "root.a.1" {
		t.Errorf("focus = %q", st.View.Focus)
	}
	if st.View.Matches != 1 || st.Stats == nil || st.Stats.Nodes != 5 {
		t.Errorf("state = %+v", st)
	}
	n, _ := st.View.Node("root.a.1")
	if !n.IsMatch || !n.IsFocus {
		t.Errorf("node = %+v", n)
	}
}

func TestViewErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errs.Code
	}{
		{"parse error", `{"text": "{\"a\":"}`, http.StatusBadRequest, errs.ErrCodeInvalidJSON},
		{"bad previous", `{"text": "1", "previous": "[" }`, http.StatusBadRequest, errs.ErrCodeInvalidJSON},
		{"unknown field", `{"txt": "1"}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"empty body", ``, http.StatusBadRequest, errs.ErrCodeEmptyInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/view", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			var e errorResponse
			_ = json.NewDecoder(resp.Body).Decode(&e)
			if resp.StatusCode != tt.status || e.Code != tt.code {
				t.Errorf("got %d %s (%s), want %d %s", resp.StatusCode, e.Code, e.Message, tt.status, tt.code)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	api := ts.URL + "/api/v1/sessions"

	resp, data := do(t, http.MethodPost, api, map[string]string{"text": `{"users":[{"id":1}]}`})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d: %s", resp.StatusCode, data)
	}
	st := decodeState(t, data)
	base := api + "/" + st.ID
	if st.View.Focus != "root" || len(st.View.Nodes) != 4 {
		t.Errorf("created state = %+v", st.View)
	}

	// Edit a leaf: the focus moves to it and the text is rewritten.
	resp, data = do(t, http.MethodPost, base+"/edit", editRequest{Path: "root.users.0.id", Value: "2"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit = %d: %s", resp.StatusCode, data)
	}
	st = decodeState(t, data)
	if st.Applied == nil || !*st.Applied || st.View.Focus != "root.users.0.id" {
		t.Errorf("edit state = %+v", st)
	}
	if !strings.Contains(st.Text, `"id": 2`) {
		t.Errorf("text = %q", st.Text)
	}

	// Unresolvable path is a silent no-op.
	_, data = do(t, http.MethodPost, base+"/edit", editRequest{Path: "root.nope.x", Value: "1"})
	if st = decodeState(t, data); st.Applied == nil || *st.Applied {
		t.Errorf("no-op edit applied: %+v", st.Applied)
	}

	// Search does not move the focus.
	_, data = do(t, http.MethodPut, base+"/query", queryRequest{Query: "users"})
	st = decodeState(t, data)
	if st.View.Matches != 1 || st.View.Focus != "root.users.0.id" {
		t.Errorf("query state: matches=%d focus=%q", st.View.Matches, st.View.Focus)
	}

	// Invalid text is kept as state with an error message.
	resp, data = do(t, http.MethodPut, base+"/text", textRequest{Text: `{"users":`})
	st = decodeState(t, data)
	if resp.StatusCode != http.StatusOK || st.View.Error == "" || st.View.Focus != "" {
		t.Errorf("invalid text = %d %+v", resp.StatusCode, st.View)
	}

	resp, _ = do(t, http.MethodPut, base+"/text", textRequest{Text: `{"users":[{"id":2}],"n":null}`})
	if resp.StatusCode != http.StatusOK {
		t.Fatal(resp.Status)
	}
	_, data = do(t, http.MethodGet, base, nil)
	if st = decodeState(t, data); st.View.Focus != "root.n" {
		t.Errorf("focus after fix = %q", st.View.Focus)
	}

	resp, data = do(t, http.MethodGet, base+"/export?format=json", nil)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("export = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(data), `"n": null`) {
		t.Errorf("export body = %s", data)
	}

	resp, data = do(t, http.MethodGet, base+"/render?format=dot", nil)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("render = %d %s", resp.StatusCode, data)
	}

	resp, _ = do(t, http.MethodPost, base+"/format", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("format = %d", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodDelete, base, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d", resp.StatusCode)
	}
}

func TestSessionErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	api := ts.URL + "/api/v1/sessions"

	resp, _ := do(t, http.MethodGet, api+"/not-a-uuid", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session = %d", resp.StatusCode)
	}

	resp, data := do(t, http.MethodPost, api, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create empty = %d: %s", resp.StatusCode, data)
	}
	base := api + "/" + decodeState(t, data).ID

	resp, _ = do(t, http.MethodGet, base+"/export", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("export without document = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, base+"/render", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("render without document = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodPost, base+"/edit", editRequest{Path: "", Value: "1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("edit with empty path = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodPut, base+"/query", queryRequest{Query: strings.Repeat("x", errs.MaxQueryLength+1)})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("long query = %d", resp.StatusCode)
	}
}

func TestWebsocket(t *testing.T) {
	ts, _ := newTestServer(t)
	_, data := do(t, http.MethodPost, ts.URL+"/api/v1/sessions", map[string]string{"text": `{"a": 1}`})
	id := decodeState(t, data).ID

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	read := func() outbound {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg outbound
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	if msg := read(); msg.Type != msgView || msg.State == nil || msg.State.View.Focus != "root" {
		t.Fatalf("initial message = %+v", msg)
	}

	if err := conn.WriteJSON(inbound{Type: msgPing}); err != nil {
		t.Fatal(err)
	}
	if msg := read(); msg.Type != msgPong {
		t.Errorf("ping reply = %+v", msg)
	}

	if err := conn.WriteJSON(inbound{Type: msgText, Text: `{"a": 2}`}); err != nil {
		t.Fatal(err)
	}
	if msg := read(); msg.Type != msgView || msg.State.View.Focus != "root.a" {
		t.Errorf("text update = %+v", msg)
	}

	// REST changes reach websocket clients too.
	do(t, http.MethodPut, ts.URL+"/api/v1/sessions/"+id+"/query", queryRequest{Query: "a"})
	if msg := read(); msg.Type != msgView || msg.State.Query != "a" || msg.State.View.Matches != 1 {
		t.Errorf("pushed update = %+v", msg)
	}

	if err := conn.WriteJSON(inbound{Type: "shout"}); err != nil {
		t.Fatal(err)
	}
	if msg := read(); msg.Type != msgError || msg.Code != errs.ErrCodeInvalidInput {
		t.Errorf("unknown type reply = %+v", msg)
	}
}

func TestWebsocketKeepsSessionAlive(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(Config{SessionTTL: 500 * time.Millisecond, Logger: logger})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	ctx := t.Context()

	_, data := do(t, http.MethodPost, ts.URL+"/api/v1/sessions", map[string]string{"text": `{"a": 0}`})
	id := decodeState(t, data).ID
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/v1/sessions/"+id+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	read := func() (outbound, error) {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg outbound
		err := conn.ReadJSON(&msg)
		return msg, err
	}
	if _, err := read(); err != nil {
		t.Fatal(err)
	}

	// Well past the TTL, but never idle for longer than it.
	for i := 1; i <= 10; i++ {
		time.Sleep(100 * time.Millisecond)
		if err := conn.WriteJSON(inbound{Type: msgText, Text: fmt.Sprintf(`{"a": %d}`, i)}); err != nil {
			t.Fatal(err)
		}
		if msg, err := read(); err != nil || msg.Type != msgView {
			t.Fatalf("text reply = %+v, %v", msg, err)
		}
	}
	removed, _ := srv.sessions.Cleanup(ctx)
	srv.sessionsExpired(ctx, removed, srv.sessions.Len())
	if len(removed) != 0 {
		t.Fatalf("active session removed: %v", removed)
	}
	if resp, _ := do(t, http.MethodGet, ts.URL+"/api/v1/sessions/"+id, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("GET active session = %d", resp.StatusCode)
	}

	// Idle now: the sweep removes it and hangs up the socket.
	time.Sleep(700 * time.Millisecond)
	removed, _ = srv.sessions.Cleanup(ctx)
	srv.sessionsExpired(ctx, removed, srv.sessions.Len())
	if len(removed) != 1 || removed[0] != id {
		t.Fatalf("removed = %v, want [%s]", removed, id)
	}
	_, err = read()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("read after expiry = %v, want close going away", err)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	do(t, http.MethodPost, ts.URL+"/api/v1/view", viewRequest{Text: `[1]`})

	resp, data := do(t, http.MethodGet, ts.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`jsonscope_parses_total{result="ok"} 1`,
		`jsonscope_http_requests_total{code="200",method="POST",route="/api/v1/view"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[errs.Code]int{
		errs.ErrCodeInvalidJSON:     http.StatusBadRequest,
		errs.ErrCodeSessionNotFound: http.StatusNotFound,
		errs.ErrCodeTooLarge:        http.StatusRequestEntityTooLarge,
		errs.ErrCodeUnsupported:     http.StatusNotImplemented,
		errs.ErrCodeInternal:        http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", code, got, want)
		}
	}
}
