package a2a

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// NoTrafficSentinel is returned by RecentTraffic when an agent has no
// logged conversations.
const NoTrafficSentinel = "No previous agent conversations."

// trafficLogCap bounds the per-agent traffic log used for summaries.
const trafficLogCap = 50

// trafficEntry is one logged delivery, kept separate from the mailbox so
// draining does not erase history.
type trafficEntry struct {
	From    string
	To      string
	Content string
}

// Channel routes envelopes between registered agents. Delivery (enqueue)
// is decoupled from execution (drain) so the caller controls pacing and
// ordering. All methods are safe for concurrent use.
type Channel struct {
	mu      sync.Mutex
	cards   map[string]AgentCard
	mailbox map[string][]Envelope
	traffic map[string][]trafficEntry
}

// NewChannel creates an empty agent channel.
func NewChannel() *Channel {
	return &Channel{
		cards:   make(map[string]AgentCard),
		mailbox: make(map[string][]Envelope),
		traffic: make(map[string][]trafficEntry),
	}
}

// Register upserts an agent card and initializes its mailbox and traffic
// log. Re-registration overwrites the card; pending mail is preserved.
func (c *Channel) Register(card AgentCard) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cards[card.AgentID] = card
	if _, ok := c.mailbox[card.AgentID]; !ok {
		c.mailbox[card.AgentID] = nil
	}
	if _, ok := c.traffic[card.AgentID]; !ok {
		c.traffic[card.AgentID] = nil
	}
	log.Printf("[A2A] ✅ Registered: %s", card.Name)
}

// Deliver appends the envelope to the receiver's mailbox and traffic log.
// An unknown receiver is an error: routing targets are validated at
// startup, so hitting this at runtime means a misconfigured deployment.
func (c *Channel) Deliver(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cards[env.Receiver]; !ok {
		return fmt.Errorf("deliver to unknown agent %q", env.Receiver)
	}

	c.mailbox[env.Receiver] = append(c.mailbox[env.Receiver], env)

	tl := append(c.traffic[env.Receiver], trafficEntry{
		From:    env.Sender,
		To:      env.Receiver,
		Content: env.Content,
	})
	if len(tl) > trafficLogCap {
		tl = tl[len(tl)-trafficLogCap:]
	}
	c.traffic[env.Receiver] = tl

	log.Printf("[A2A] 📨 %s → %s", env.Sender, env.Receiver)
	return nil
}

// Drain atomically removes and returns all pending envelopes for an agent.
// Concurrent drains partition the mailbox: each envelope is handed to
// exactly one caller.
func (c *Channel) Drain(agentID string) []Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := c.mailbox[agentID]
	c.mailbox[agentID] = nil
	return pending
}

// RecentTraffic renders the last limit traffic log entries for an agent as
// "from → to: content" lines, or the no-history sentinel when empty.
// limit <= 0 defaults to 5.
func (c *Channel) RecentTraffic(agentID string, limit int) string {
	if limit <= 0 {
		limit = 5
	}

	c.mu.Lock()
	entries := c.traffic[agentID]
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s → %s: %s", e.From, e.To, e.Content))
	}
	c.mu.Unlock()

	if len(lines) == 0 {
		return NoTrafficSentinel
	}
	return "AGENT CONVERSATION HISTORY:\n" + strings.Join(lines, "\n") + "\n"
}

// AgentCount returns the number of registered agents (health signal).
func (c *Channel) AgentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cards)
}

// Cards returns a copy of all registered agent cards.
func (c *Channel) Cards() []AgentCard {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]AgentCard, 0, len(c.cards))
	for _, card := range c.cards {
		out = append(out, card)
	}
	return out
}

// ValidateTargets verifies every routable agent ID is registered. Run at
// startup so Deliver can never hit an unknown receiver in practice.
func (c *Channel) ValidateTargets(ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var missing []string
	for _, id := range ids {
		if _, ok := c.cards[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("unregistered routing targets: %s", strings.Join(missing, ", "))
	}
	return nil
}
