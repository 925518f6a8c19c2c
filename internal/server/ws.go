package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/observability"
	"github.com/matzehuels/jsonscope/pkg/session"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

// Message types.
const (
	msgText   = "text"
	msgQuery  = "query"
	msgEdit   = "edit"
	msgFormat = "format"
	msgClear  = "clear"
	msgPing   = "ping"

	msgView  = "view"
	msgError = "error"
	msgPong  = "pong"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type inbound struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Query string `json:"query,omitempty"`
	Path  string `json:"path,omitempty"`
	Value string `json:"value,omitempty"`
}

type outbound struct {
	Type    string         `json:"type"`
	State   *stateResponse `json:"state,omitempty"`
	Code    errs.Code      `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
}

func errorMessage(err error) outbound {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return outbound{Type: msgError, Code: code, Message: errs.UserMessage(err)}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	c := s.hub.subscribe(sess.ID)
	defer s.hub.unsubscribe(sess.ID, c)

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Direct replies go only to this connection.
	reply := make(chan outbound, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		write := func(msg outbound) bool {
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return false
			}
			return conn.WriteJSON(msg) == nil
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.quit:
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(wsWriteWait))
				conn.Close()
				return
			case msg := <-c.send:
				if !write(msg) {
					return
				}
			case msg := <-reply:
				if !write(msg) {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	state := stateOf(sess)
	reply <- outbound{Type: msgView, State: &state}

	for {
		var in inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				observability.HTTP().OnError(ctx, "ws", err)
				s.logger.Debug("websocket closed", "session", sess.ID, "error", err)
			}
			cancel()
			<-writerDone
			return
		}
		if msg, ok := s.dispatch(ctx, sess, in); ok {
			select {
			case reply <- msg:
			default:
			}
		}
	}
}

// dispatch applies one inbound message. Successful changes reach this
// client through the hub; only errors and pongs are returned for a direct
// reply.
func (s *Server) dispatch(ctx context.Context, sess *session.Session, in inbound) (outbound, bool) {
	if err := s.sessions.Touch(ctx, sess.ID); err != nil {
		return errorMessage(errs.Wrap(errs.ErrCodeSessionNotFound, err, "session %q not found", sess.ID)), true
	}
	var err error
	switch strings.ToLower(strings.TrimSpace(in.Type)) {
	case msgPing:
		return outbound{Type: msgPong}, true
	case msgText:
		err = s.setText(ctx, sess, in.Text)
	case msgQuery:
		err = s.setQuery(sess, in.Query)
	case msgEdit:
		var applied bool
		applied, err = s.edit(ctx, sess, in.Path, in.Value)
		if err == nil && !applied {
			state := stateOf(sess)
			state.Applied = &applied
			return outbound{Type: msgView, State: &state}, true
		}
	case msgFormat:
		_, err = s.format(ctx, sess)
	case msgClear:
		sess.Workspace.Clear()
		s.publish(sess)
	case "":
		err = errs.New(errs.ErrCodeInvalidInput, "type is required")
	default:
		err = errs.New(errs.ErrCodeInvalidInput, "unknown message type %q", in.Type)
	}
	if err != nil {
		return errorMessage(err), true
	}
	return outbound{}, false
}
