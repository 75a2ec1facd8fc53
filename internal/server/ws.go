package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/galacticode/galacticode/internal/progression"
	"github.com/galacticode/galacticode/internal/session"
)

// Websocket message types.
const (
	msgAnswer  = "answer"
	msgAdvance = "advance"
	msgState   = "state"
	msgError   = "error"
)

// wsMessage is a client request on the play socket.
type wsMessage struct {
	Type   string `json:"type"`
	Answer string `json:"answer,omitempty"`
}

// wsReply answers one wsMessage. Exactly one payload field is set.
type wsReply struct {
	Type    string                    `json:"type"`
	Session *sessionView              `json:"session,omitempty"`
	Result  *progression.AnswerResult `json:"result,omitempty"`
	Advance *advanceView              `json:"advance,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// serveWS plays one session over a websocket. The current state is sent on
// connect and after every message the client sends.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.origins),
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "session", sess.ID, "error", err)
		return
	}
	defer ws.CloseNow()
	ws.SetReadLimit(maxBodyBytes)

	ctx := r.Context()
	if err := s.writeState(ctx, ws, sess); err != nil {
		return
	}

	for {
		var msg wsMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				s.logger.Debug("websocket read", "session", sess.ID, "error", err)
			}
			return
		}

		reply := s.handleMessage(ctx, sess, msg)
		if err := wsjson.Write(ctx, ws, reply); err != nil {
			return
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, sess *session.Session, msg wsMessage) wsReply {
	switch msg.Type {
	case msgAnswer:
		res, err := sess.Submit(ctx, msg.Answer)
		if err != nil {
			return wsReply{Type: msgError, Error: err.Error()}
		}
		return wsReply{Type: msgAnswer, Result: &res}
	case msgAdvance:
		res, err := sess.Advance(ctx)
		if err != nil {
			return wsReply{Type: msgError, Error: err.Error()}
		}
		adv := viewAdvance(res)
		return wsReply{Type: msgAdvance, Advance: &adv}
	case msgState:
		v := viewSession(sess.Snapshot())
		return wsReply{Type: msgState, Session: &v}
	default:
		return wsReply{Type: msgError, Error: "unknown message type: " + msg.Type}
	}
}

func (s *Server) writeState(ctx context.Context, ws *websocket.Conn, sess *session.Session) error {
	v := viewSession(sess.Snapshot())
	return wsjson.Write(ctx, ws, wsReply{Type: msgState, Session: &v})
}

// originPatterns converts allowed origins to the host patterns the
// websocket handshake checks. Same-host requests are always accepted.
func originPatterns(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
		}
	}
	return out
}
