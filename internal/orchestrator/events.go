// Package orchestrator drives one conversational turn end to end and emits
// the ordered event stream the outward transport forwards to clients.
package orchestrator

// Event types, in the order a turn can emit them.
const (
	EventUserMessage   = "user_message"
	EventAgentThinking = "agent_thinking"
	EventAgentMessage  = "agent_message"
	EventSessionUpdate = "session_update"
	EventDone          = "done"
)

// Event is one typed record in a turn's outbound stream.
type Event struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	Agent     string `json:"agent,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// EmitFunc receives each event in turn order. Implementations must not
// block indefinitely; a slow consumer stalls only its own turn.
type EmitFunc func(Event)
