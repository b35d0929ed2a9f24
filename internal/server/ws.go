package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"react-assistant/internal/app"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser clients connect from arbitrary editor origins; same policy as
	// the CORS layer.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsFrame is one inbound WebSocket request. The session is fixed by the
// connection path, so frames only carry per-turn fields.
type wsFrame struct {
	Query     string           `json:"query"`
	Context   *app.ChatContext `json:"context,omitempty"`
	ModelName string           `json:"model_name,omitempty"`
}

type wsError struct {
	Error string `json:"error"`
}

// handleWebSocket runs the realtime chat loop: one JSON request frame in, one
// ChatResponse frame out, until the client hangs up. Turn errors are reported
// in-band and the loop keeps going.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}
	defer conn.Close()

	// Registry keys are per connection: one session can hold several sockets,
	// and closing one must not hide the others from /health.
	connID := uuid.NewString()
	s.trackSocket(connID, true)
	defer s.trackSocket(connID, false)

	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Info("websocket closed", map[string]interface{}{
					"session_id": sessionID,
					"error":      err.Error(),
				})
			}
			return
		}

		resp, err := s.chat.ProcessChat(r.Context(), app.ChatRequest{
			Query:     frame.Query,
			Context:   frame.Context,
			SessionID: sessionID,
			ModelName: frame.ModelName,
		})
		if err != nil {
			if werr := conn.WriteJSON(wsError{Error: err.Error()}); werr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (s *Server) trackSocket(connID string, open bool) {
	s.mu.Lock()
	if open {
		s.sockets[connID] = struct{}{}
	} else {
		delete(s.sockets, connID)
	}
	s.mu.Unlock()
}
