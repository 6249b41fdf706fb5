package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Message types sent over the canvas socket.
const (
	MessageSnapshot = "snapshot"
	MessageOutcome  = "outcome"
	MessageError    = "error"
)

// Message is one server-to-client frame. Clients send bare [Action]s.
type Message struct {
	Type     string           `json:"type"`
	Snapshot *canvas.Snapshot `json:"snapshot,omitempty"`
	Outcome  *Outcome         `json:"outcome,omitempty"`
	Error    string           `json:"error,omitempty"`
	Code     string           `json:"code,omitempty"`
}

// handleWS streams snapshots of a canvas and applies actions read from the
// client. Every subscriber of the canvas receives the new snapshot after a
// change, so several views stay in sync.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	logger := s.logger.With("canvas", sess.id)
	logger.Debug("websocket connected")

	snaps, cancel := sess.subscribe()
	defer cancel()

	replies := make(chan Message, 16)
	done := make(chan struct{})
	go s.writePump(conn, snaps, replies, done)
	defer close(done)

	first := sess.canvas.Snapshot()
	replies <- Message{Type: MessageSnapshot, Snapshot: &first}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var a Action
		if err := conn.ReadJSON(&a); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "err", err)
			}
			return
		}

		out, err := Apply(sess.canvas, a)
		var msg Message
		if err != nil {
			msg = Message{Type: MessageError, Error: errors.UserMessage(err), Code: string(errors.GetCode(err))}
		} else {
			msg = Message{Type: MessageOutcome, Outcome: &out}
		}
		select {
		case replies <- msg:
		default:
			logger.Warn("websocket client too slow, dropping reply", "action", a.Type)
		}
		if err == nil && out.Changed {
			sess.publish()
		}
	}
}

// writePump owns all writes to conn: replies, snapshots and pings.
func (s *Server) writePump(conn *websocket.Conn, snaps <-chan canvas.Snapshot, replies <-chan Message, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(msg Message) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg) == nil
	}

	for {
		select {
		case <-done:
			return
		case msg := <-replies:
			if !write(msg) {
				conn.Close()
				return
			}
		case snap, ok := <-snaps:
			if !ok {
				// Session evicted.
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "canvas closed"),
					time.Now().Add(writeWait))
				conn.Close()
				return
			}
			if !write(Message{Type: MessageSnapshot, Snapshot: &snap}) {
				conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}
