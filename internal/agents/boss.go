package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/abcfit/fitbanker-go/internal/a2a"
	"github.com/abcfit/fitbanker-go/internal/providers"
	"github.com/abcfit/fitbanker-go/internal/store"
	"github.com/abcfit/fitbanker-go/internal/transcript"
)

// providerUnavailableReply is streamed when the completion service itself
// fails; the turn still produces output.
const providerUnavailableReply = "I'm having a little trouble right now. Please try again in a moment."

// Outcome is the boss's result for one turn: its own fragments plus the
// specialist the turn was routed to, if any.
type Outcome struct {
	Messages []StreamMessage
	RoutedTo string
}

// Boss is the coordinating agent. It is the only agent with a direct
// conversational contract with the user; every other agent is reached by
// routing an envelope through the channel.
type Boss struct {
	agentID    string
	channel    *a2a.Channel
	provider   providers.LLMProvider
	transcript *transcript.Store
}

// NewBoss creates the coordinating agent and registers its card.
func NewBoss(channel *a2a.Channel, provider providers.LLMProvider, ts *transcript.Store) *Boss {
	b := &Boss{
		agentID:    BossAgentID,
		channel:    channel,
		provider:   provider,
		transcript: ts,
	}
	channel.Register(BossCard())
	return b
}

// ProcessTurn decides whether to answer the user directly or route to a
// specialist. It always returns at least one fragment; on a route decision
// the forwarded envelope is already delivered to the channel.
func (b *Boss) ProcessTurn(ctx context.Context, userMessage string, session *store.SessionInfo, sessionID string) Outcome {
	sessionInfo := "No active session"
	if session != nil {
		if data, err := json.MarshalIndent(session, "", "  "); err == nil {
			sessionInfo = string(data)
		}
	}
	chatContext := b.transcript.RecentContext(sessionID, 10)

	prompt := fmt.Sprintf(`USER MESSAGE: %s

SESSION: %s

CHAT HISTORY: %s

Decide what to do and generate 2-4 progressive streaming messages.`, userMessage, sessionInfo, chatContext)

	var decision BossDecision
	raw, err := b.provider.Chat(ctx, providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: bossSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("[Boss] ⚠️ Completion failed: %v", err)
		decision = BossDecision{
			Action:         ActionRespond,
			StreamMessages: []StreamMessage{{Content: providerUnavailableReply}},
		}
	} else {
		decision = parseBossDecision(raw)
	}

	for _, msg := range decision.StreamMessages {
		b.transcript.Append(sessionID, "assistant", msg.Content, b.agentID)
	}

	if decision.Action != ActionRoute {
		return Outcome{Messages: decision.StreamMessages}
	}

	forward := decision.Message
	if forward == "" {
		forward = userMessage
	}
	env := a2a.NewEnvelope(b.agentID, decision.ToAgent, forward, "request", map[string]any{
		a2a.MetaSession:         session,
		a2a.MetaOriginalMessage: userMessage,
		a2a.MetaChatContext:     chatContext,
		a2a.MetaSessionID:       sessionID,
	})
	if err := b.channel.Deliver(env); err != nil {
		// Startup validation makes this unreachable for known specs; a
		// misrouted decision degrades to a direct response.
		log.Printf("[Boss] ⚠️ Route failed: %v", err)
		return Outcome{Messages: decision.StreamMessages}
	}

	return Outcome{Messages: decision.StreamMessages, RoutedTo: decision.ToAgent}
}
