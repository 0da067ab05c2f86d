// Package transcript implements the bounded per-session conversation store
// shared by the router and every specialist agent.
package transcript

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// AnonymousKey is the session bucket for turns without a session ID.
	AnonymousKey = "guest"

	// NoHistorySentinel is returned when a session has no recorded turns.
	NoHistorySentinel = "No previous conversation."

	// maxRecords bounds each session bucket; the oldest record is evicted
	// once the 21st arrives.
	maxRecords = 20

	// contextWindow is how many records RecentContext renders by default.
	contextWindow = 10
)

// Record is one transcript entry: a user utterance or an agent reply.
type Record struct {
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	Agent     string    `json:"agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds per-session rolling transcripts. Buckets are created lazily
// on first write and live for the process lifetime. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]Record
}

// NewStore creates an empty transcript store.
func NewStore() *Store {
	return &Store{sessions: make(map[string][]Record)}
}

func normalizeKey(sessionID string) string {
	if sessionID == "" {
		return AnonymousKey
	}
	return sessionID
}

// Append records one turn entry. agent may be "" for user entries.
func (s *Store) Append(sessionID, role, message, agent string) {
	key := normalizeKey(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	records := append(s.sessions[key], Record{
		Role:      role,
		Message:   message,
		Agent:     agent,
		Timestamp: time.Now().UTC(),
	})
	if len(records) > maxRecords {
		records = records[len(records)-maxRecords:]
	}
	s.sessions[key] = records
}

// RecentContext renders the most recent limit records as dialogue lines for
// prompt context. limit <= 0 defaults to 10.
func (s *Store) RecentContext(sessionID string, limit int) string {
	if limit <= 0 {
		limit = contextWindow
	}
	key := normalizeKey(sessionID)

	s.mu.Lock()
	records := s.sessions[key]
	if len(records) > limit {
		records = records[len(records)-limit:]
	}
	recent := make([]Record, len(records))
	copy(recent, records)
	s.mu.Unlock()

	if len(recent) == 0 {
		return NoHistorySentinel
	}

	var b strings.Builder
	b.WriteString("PREVIOUS CONVERSATION:\n")
	for _, r := range recent {
		role := "AI"
		if r.Role == "user" {
			role = "USER"
		}
		if r.Agent != "" {
			b.WriteString(fmt.Sprintf("%s (%s): %s\n", role, r.Agent, r.Message))
		} else {
			b.WriteString(fmt.Sprintf("%s: %s\n", role, r.Message))
		}
	}
	return b.String()
}

// Len reports how many records a session currently holds.
func (s *Store) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[normalizeKey(sessionID)])
}
