package orchestrator

import (
	"context"
	"log"
	"time"

	"github.com/abcfit/fitbanker-go/internal/a2a"
	"github.com/abcfit/fitbanker-go/internal/agents"
	"github.com/abcfit/fitbanker-go/internal/store"
	"github.com/abcfit/fitbanker-go/internal/transcript"
)

// thinkingMessage is the transient acknowledgment streamed before the boss
// decision arrives.
const thinkingMessage = "Processing your request..."

// Pacing sets the minimum inter-event delays that make the stream feel
// incremental. The zero value disables all delays (tests rely on this:
// event order is identical either way).
type Pacing struct {
	PreThink   time.Duration
	PostThink  time.Duration
	PerMessage time.Duration
}

// DefaultPacing matches the delays clients were tuned against.
func DefaultPacing() Pacing {
	return Pacing{
		PreThink:   300 * time.Millisecond,
		PostThink:  500 * time.Millisecond,
		PerMessage: 600 * time.Millisecond,
	}
}

// SessionResolver turns a session token into a session snapshot.
// store.Store satisfies this; the server may interpose a cache.
type SessionResolver interface {
	UserFromSession(ctx context.Context, sessionID string) (*store.SessionInfo, error)
}

// Orchestrator sequences one turn: transcript write, boss decision, mailbox
// drain, specialist dispatch, and the strictly ordered event stream.
// Multiple turns may run concurrently; the channel, transcript, and store
// serialize their own state.
type Orchestrator struct {
	channel     *a2a.Channel
	transcript  *transcript.Store
	boss        *agents.Boss
	specialists map[string]*agents.Specialist
	sessions    SessionResolver
	pacing      Pacing
}

// New creates an orchestrator over an already-wired agent set.
func New(channel *a2a.Channel, ts *transcript.Store, boss *agents.Boss, specialists []*agents.Specialist, sessions SessionResolver, pacing Pacing) *Orchestrator {
	byID := make(map[string]*agents.Specialist, len(specialists))
	for _, sp := range specialists {
		byID[sp.ID()] = sp
	}
	return &Orchestrator{
		channel:     channel,
		transcript:  ts,
		boss:        boss,
		specialists: byID,
		sessions:    sessions,
		pacing:      pacing,
	}
}

// ProcessTurn runs one user utterance through the full pipeline, calling
// emit once per outbound event in order. The terminal done event is emitted
// unconditionally, even when earlier steps produced nothing.
func (o *Orchestrator) ProcessTurn(ctx context.Context, userMessage, sessionID string, emit EmitFunc) {
	defer emit(Event{Type: EventDone})

	session, err := o.sessions.UserFromSession(ctx, sessionID)
	if err != nil {
		// An unreadable session degrades to an anonymous turn.
		log.Printf("[Orchestrator] ⚠️ Session lookup failed: %v", err)
		session = nil
	}

	o.transcript.Append(sessionID, "user", userMessage, "")
	emit(Event{Type: EventUserMessage, Message: userMessage})

	o.pause(ctx, o.pacing.PreThink)
	emit(Event{Type: EventAgentThinking, Message: thinkingMessage})
	o.pause(ctx, o.pacing.PostThink)

	outcome := o.boss.ProcessTurn(ctx, userMessage, session, sessionID)
	for _, msg := range outcome.Messages {
		emit(Event{Type: EventAgentMessage, Message: msg.Content, Agent: agents.BossAgentID})
		o.pause(ctx, o.pacing.PerMessage)
	}

	if outcome.RoutedTo == "" {
		return
	}

	specialist, ok := o.specialists[outcome.RoutedTo]
	if !ok {
		log.Printf("[Orchestrator] ⚠️ No specialist for %q", outcome.RoutedTo)
		return
	}

	// The mailbox is the single channel of communication: the envelope the
	// boss just delivered is picked up here, not passed directly.
	for _, env := range o.channel.Drain(outcome.RoutedTo) {
		result := specialist.Handle(ctx, env)

		for _, msg := range result.Messages {
			emit(Event{Type: EventAgentMessage, Message: msg.Content, Agent: agents.BossAgentID})
			o.pause(ctx, o.pacing.PerMessage)
		}

		if result.SessionID != "" {
			emit(Event{Type: EventSessionUpdate, SessionID: result.SessionID})
		} else if result.SessionCleared {
			emit(Event{Type: EventSessionUpdate})
		}
	}
}

// pause sleeps for d unless the turn's context ends first.
func (o *Orchestrator) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
