// Package providers defines the LLM completion interface and the
// OpenAI-compatible implementation used for agent decisions.
package providers

import "context"

// Message represents a role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest holds all parameters for a chat completion call.
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// LLMProvider is the interface for all completion backends. Agents treat
// latency and availability as opaque; a failed call is handled by the
// caller's fallback path.
type LLMProvider interface {
	// Chat sends a chat completion request and returns the raw text blob.
	Chat(ctx context.Context, req ChatRequest) (string, error)

	// DefaultModel returns the default model identifier.
	DefaultModel() string
}
