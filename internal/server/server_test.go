package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcfit/fitbanker-go/internal/a2a"
	"github.com/abcfit/fitbanker-go/internal/agents"
	"github.com/abcfit/fitbanker-go/internal/orchestrator"
	"github.com/abcfit/fitbanker-go/internal/providers"
	"github.com/abcfit/fitbanker-go/internal/sessioncache"
	"github.com/abcfit/fitbanker-go/internal/store"
	"github.com/abcfit/fitbanker-go/internal/transcript"
)

type cannedProvider struct{ response string }

func (p *cannedProvider) Chat(_ context.Context, _ providers.ChatRequest) (string, error) {
	return p.response, nil
}

func (p *cannedProvider) DefaultModel() string { return "test-model" }

type stubStore struct {
	store.Store
	info *store.SessionInfo
}

func (s *stubStore) UserFromSession(_ context.Context, sessionID string) (*store.SessionInfo, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.info, nil
}

func (s *stubStore) DeleteSession(_ context.Context, _ string) error { return nil }

func newTestServer(t *testing.T, cfg Config, bossJSON string, st store.Store) *Server {
	t.Helper()

	ch := a2a.NewChannel()
	ts := transcript.NewStore()
	boss := agents.NewBoss(ch, &cannedProvider{response: bossJSON}, ts)

	var specialists []*agents.Specialist
	for _, spec := range agents.DefaultSpecs() {
		specialists = append(specialists, agents.NewSpecialist(spec, ch, &cannedProvider{response: `{}`}, ts, st))
	}

	sessions := sessioncache.New(sessioncache.Config{}, st)
	orch := orchestrator.New(ch, ts, boss, specialists, sessions, orchestrator.Pacing{})
	return NewServer(cfg, ch, orch, sessions)
}

func parseSSE(t *testing.T, body string) []orchestrator.Event {
	t.Helper()
	var events []orchestrator.Event
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var e orchestrator.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &e))
		events = append(events, e)
	}
	return events
}

func TestServer_ChatStream(t *testing.T) {
	s := newTestServer(t, Config{},
		`{"action":"respond","stream_messages":[{"content":"Hi!"},{"content":"How can I help?"}]}`,
		&stubStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/stream",
		strings.NewReader(`{"message":"hello"}`))
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 5)
	assert.Equal(t, orchestrator.EventUserMessage, events[0].Type)
	assert.Equal(t, orchestrator.EventAgentThinking, events[1].Type)
	assert.Equal(t, orchestrator.EventAgentMessage, events[2].Type)
	assert.Equal(t, "Hi!", events[2].Message)
	assert.Equal(t, orchestrator.EventDone, events[4].Type)
}

func TestServer_ChatStreamRejectsEmptyMessage(t *testing.T) {
	s := newTestServer(t, Config{}, `{}`, &stubStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/stream", strings.NewReader(`{"message":"  "}`))
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ChatStreamRejectsGet(t *testing.T) {
	s := newTestServer(t, Config{}, `{}`, &stubStore{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/stream", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_SessionEndpoint(t *testing.T) {
	st := &stubStore{info: &store.SessionInfo{UserID: 7, Name: "Priya", Authenticated: true}}
	s := newTestServer(t, Config{}, `{}`, st)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/tok-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var info store.SessionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.True(t, info.Authenticated)
	assert.Equal(t, "Priya", info.Name)
}

func TestServer_SessionEndpointUnknown(t *testing.T) {
	s := newTestServer(t, Config{}, `{}`, &stubStore{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/unknown", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])
}

func TestServer_HealthReportsAgents(t *testing.T) {
	s := newTestServer(t, Config{}, `{}`, &stubStore{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	// Boss plus five specialists.
	assert.EqualValues(t, 6, body["agents"])
}

func TestServer_AuthMiddleware(t *testing.T) {
	s := newTestServer(t, Config{APIKey: "secret"}, `{}`, &stubStore{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/tok", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/session/tok", nil)
	req.Header.Set("Authorization", "Bearer secret")
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open for probes.
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RouteTurnStreamsSpecialistReply(t *testing.T) {
	st := &stubStore{}
	s := newTestServer(t, Config{},
		`{"action":"route","to_agent":"registration_agent","stream_messages":[{"content":"Let's sign you up!"}]}`,
		st)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/stream",
		strings.NewReader(`{"message":"I want to sign up"}`))
	s.Handler().ServeHTTP(rec, req)

	events := parseSSE(t, rec.Body.String())
	var agentMessages int
	for _, e := range events {
		if e.Type == orchestrator.EventAgentMessage {
			agentMessages++
		}
	}
	// Boss acknowledgment plus specialist reply.
	assert.GreaterOrEqual(t, agentMessages, 2)
	assert.Equal(t, orchestrator.EventDone, events[len(events)-1].Type)
}
