// Package server exposes the chatbot over HTTP: an SSE streaming chat
// endpoint, a WebSocket equivalent, session lookup, and health.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/abcfit/fitbanker-go/internal/a2a"
	"github.com/abcfit/fitbanker-go/internal/orchestrator"
	"github.com/abcfit/fitbanker-go/internal/sessioncache"
)

// ChatRequest is the body of a streaming chat call.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Config holds server settings.
type Config struct {
	Port   int
	APIKey string
}

// Server is the outward-facing transport. It only frames and delivers the
// orchestrator's event sequence; event semantics live in the orchestrator.
type Server struct {
	port     int
	apiKey   string
	channel  *a2a.Channel
	orch     *orchestrator.Orchestrator
	sessions *sessioncache.Cache

	startTime time.Time
	mux       *http.ServeMux
	srv       *http.Server
}

// NewServer wires the HTTP routes.
func NewServer(cfg Config, channel *a2a.Channel, orch *orchestrator.Orchestrator, sessions *sessioncache.Cache) *Server {
	s := &Server{
		port:      cfg.Port,
		apiKey:    cfg.APIKey,
		channel:   channel,
		orch:      orch,
		sessions:  sessions,
		startTime: time.Now(),
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/chat/stream", s.withAuth(s.handleChatStream))
	s.mux.HandleFunc("/ws/chat", s.withAuth(s.handleChatWS))
	s.mux.HandleFunc("/api/session/", s.withAuth(s.handleSession))

	return s
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler: s.mux,
	}

	log.Printf("[Server] ✅ HTTP API → http://0.0.0.0:%d", s.port)
	log.Printf("[Server] ✅ Chat stream → POST http://0.0.0.0:%d/api/chat/stream", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler exposes the route mux for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// --- Auth middleware ---

func (s *Server) withAuth(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+s.apiKey {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
		}
		handler(w, r)
	}
}

// --- Handlers ---

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{
		"message": "ABC+ Fit Banker AI Agent System",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"status": "healthy",
		"agents": s.channel.AgentCount(),
		"uptime": int(time.Since(s.startTime).Seconds()),
	})
}

// handleChatStream runs one turn and streams its events as SSE frames.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"error":"streaming unsupported"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	s.orch.ProcessTurn(r.Context(), req.Message, req.SessionID, func(e orchestrator.Event) {
		s.onEvent(r.Context(), req.SessionID, e)
		data, err := json.Marshal(e)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	})
}

// onEvent applies transport-side bookkeeping: session state changed, so the
// cached snapshot for the request's session is stale.
func (s *Server) onEvent(ctx context.Context, requestSessionID string, e orchestrator.Event) {
	if e.Type == orchestrator.EventSessionUpdate && requestSessionID != "" {
		s.sessions.Invalidate(ctx, requestSessionID)
	}
}

// handleSession resolves a session token to its snapshot.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/session/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		http.Error(w, `{"error":"session id required"}`, http.StatusBadRequest)
		return
	}

	info, err := s.sessions.UserFromSession(r.Context(), sessionID)
	if err != nil {
		log.Printf("[Server] ⚠️ Session lookup failed: %v", err)
		http.Error(w, `{"error":"session lookup failed"}`, http.StatusInternalServerError)
		return
	}
	if info == nil {
		writeJSON(w, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, info)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
