// Package agents implements the coordinating (boss) agent and the five
// specialist agents that handle routed requests.
package agents

import (
	"encoding/json"
	"strings"

	"github.com/abcfit/fitbanker-go/internal/store"
)

// Boss decision actions.
const (
	ActionRoute   = "route"
	ActionRespond = "respond"
)

// Specialist status values. Each variant uses its own subset; see the
// per-agent system prompts.
const (
	StatusCollecting   = "collecting"
	StatusVerifying    = "verifying"
	StatusSuccess      = "success"
	StatusFailed       = "failed"
	StatusReady        = "ready"
	StatusCreated      = "created"
	StatusAnswered     = "answered"
	StatusLoggedOut    = "logged_out"
	StatusAuthRequired = "auth_required"
	StatusError        = "error"
)

// fallbackReply is the fragment synthesized when a decision carries no
// messages at all.
const fallbackReply = "I'm here to help!"

// StreamMessage is one progressive reply fragment.
type StreamMessage struct {
	Content string `json:"content"`
}

// BossDecision is the router's parsed LLM output: answer directly or hand
// the turn to a specialist.
type BossDecision struct {
	Action         string          `json:"action"`
	ToAgent        string          `json:"to_agent,omitempty"`
	StreamMessages []StreamMessage `json:"stream_messages"`
	Message        string          `json:"message,omitempty"`
	Reasoning      string          `json:"reasoning,omitempty"`
}

// Credentials is the verify-credentials payload of a login decision.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// NewUserPayload is the create-user payload of a registration decision.
type NewUserPayload struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SpecialistDecision is a specialist's parsed LLM output: fragments, a
// status tag, and at most one variant-specific payload.
type SpecialistDecision struct {
	StreamMessages    []StreamMessage `json:"stream_messages"`
	Status            string          `json:"status"`
	VerifyCredentials *Credentials    `json:"verify_credentials,omitempty"`
	CreateUser        *NewUserPayload `json:"create_user,omitempty"`
	ProfileData       *store.Profile  `json:"profile_data,omitempty"`
}

// stripFences removes a surrounding markdown code fence, which models
// frequently wrap JSON in despite instructions.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseBossDecision maps raw model output into a BossDecision. Malformed
// output becomes a single-fragment respond decision; the returned decision
// always carries at least one fragment.
func parseBossDecision(raw string) BossDecision {
	var d BossDecision
	if err := json.Unmarshal([]byte(stripFences(raw)), &d); err != nil {
		return BossDecision{
			Action:         ActionRespond,
			StreamMessages: ensureMessages([]StreamMessage{{Content: strings.TrimSpace(raw)}}, ""),
		}
	}

	if d.Action != ActionRoute {
		d.Action = ActionRespond
	}
	d.StreamMessages = ensureMessages(d.StreamMessages, d.Message)
	return d
}

// parseSpecialistDecision maps raw model output into a SpecialistDecision.
// Malformed output becomes a single-fragment decision with fallbackStatus.
func parseSpecialistDecision(raw, fallbackStatus string) SpecialistDecision {
	var d SpecialistDecision
	if err := json.Unmarshal([]byte(stripFences(raw)), &d); err != nil {
		return SpecialistDecision{
			StreamMessages: ensureMessages([]StreamMessage{{Content: strings.TrimSpace(raw)}}, ""),
			Status:         fallbackStatus,
		}
	}

	if d.Status == "" {
		d.Status = fallbackStatus
	}
	d.StreamMessages = ensureMessages(d.StreamMessages, "")
	return d
}

// ensureMessages guarantees a non-empty fragment list, preferring the
// decision's own message field over the static fallback.
func ensureMessages(msgs []StreamMessage, message string) []StreamMessage {
	kept := msgs[:0]
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) != "" {
			kept = append(kept, m)
		}
	}
	if len(kept) > 0 {
		return kept
	}
	if strings.TrimSpace(message) != "" {
		return []StreamMessage{{Content: message}}
	}
	return []StreamMessage{{Content: fallbackReply}}
}
