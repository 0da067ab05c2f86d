// Package a2a provides the agent-to-agent channel: agent registration,
// per-agent mailboxes, and a capped traffic log for cross-turn context.
package a2a

import (
	"fmt"
	"time"
)

// Metadata keys carried on routed envelopes.
const (
	MetaSession         = "session"
	MetaOriginalMessage = "original_user_message"
	MetaChatContext     = "chat_context"
	MetaSessionID       = "session_id"
)

// Envelope is one unit of routed work between agents.
// Immutable once constructed; owned by the channel after Deliver.
type Envelope struct {
	ID        string         `json:"message_id"`
	Sender    string         `json:"sender"`
	Receiver  string         `json:"receiver"`
	Content   string         `json:"content"`
	Kind      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewEnvelope builds an Envelope with a generated ID (sender + millisecond
// timestamp; identical IDs within the same millisecond are last-write).
func NewEnvelope(sender, receiver, content, kind string, metadata map[string]any) Envelope {
	now := time.Now().UTC()
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Envelope{
		ID:        fmt.Sprintf("%s-%d", sender, now.UnixMilli()),
		Sender:    sender,
		Receiver:  receiver,
		Content:   content,
		Kind:      kind,
		Timestamp: now,
		Metadata:  metadata,
	}
}

// MetaString reads a string metadata value, returning "" when absent or
// not a string.
func (e Envelope) MetaString(key string) string {
	v, _ := e.Metadata[key].(string)
	return v
}

// AgentCard describes a registered agent for discovery and introspection.
type AgentCard struct {
	AgentID      string   `json:"agent_id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
}
