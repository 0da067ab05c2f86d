package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/abcfit/fitbanker-go/internal/orchestrator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client is served from a different origin in development.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// handleChatWS serves the WebSocket chat transport: each received
// ChatRequest frame runs one turn, with every event written back as one
// JSON frame. Frames within a turn keep the orchestrator's ordering.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Server] ⚠️ WS upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Server] ⚠️ WS read failed: %v", err)
			}
			return
		}
		if req.Message == "" {
			continue
		}

		s.orch.ProcessTurn(r.Context(), req.Message, req.SessionID, func(e orchestrator.Event) {
			s.onEvent(r.Context(), req.SessionID, e)
			if err := conn.WriteJSON(e); err != nil {
				log.Printf("[Server] ⚠️ WS write failed: %v", err)
			}
		})
	}
}
