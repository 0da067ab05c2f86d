package a2a

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCard(id string) AgentCard {
	return AgentCard{AgentID: id, Name: id, Description: "test agent"}
}

func TestChannel_RegisterIsIdempotent(t *testing.T) {
	ch := NewChannel()
	ch.Register(testCard("login_agent"))
	ch.Register(AgentCard{AgentID: "login_agent", Name: "Login Specialist"})

	assert.Equal(t, 1, ch.AgentCount())

	cards := ch.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "Login Specialist", cards[0].Name)
}

func TestChannel_ReRegisterKeepsPendingMail(t *testing.T) {
	ch := NewChannel()
	ch.Register(testCard("login_agent"))
	require.NoError(t, ch.Deliver(NewEnvelope("main_agent", "login_agent", "log in", "request", nil)))

	ch.Register(testCard("login_agent"))
	assert.Len(t, ch.Drain("login_agent"), 1)
}

func TestChannel_DeliverUnknownReceiver(t *testing.T) {
	ch := NewChannel()
	err := ch.Deliver(NewEnvelope("main_agent", "ghost_agent", "hello", "request", nil))
	assert.Error(t, err)
}

func TestChannel_DrainClearsMailbox(t *testing.T) {
	ch := NewChannel()
	ch.Register(testCard("health_agent"))

	require.NoError(t, ch.Deliver(NewEnvelope("main_agent", "health_agent", "tips", "request", nil)))
	require.NoError(t, ch.Deliver(NewEnvelope("main_agent", "health_agent", "more tips", "request", nil)))

	first := ch.Drain("health_agent")
	assert.Len(t, first, 2)
	assert.Equal(t, "tips", first[0].Content)
	assert.Equal(t, "more tips", first[1].Content)

	assert.Empty(t, ch.Drain("health_agent"))
}

func TestChannel_ConcurrentDrainsPartition(t *testing.T) {
	ch := NewChannel()
	ch.Register(testCard("profile_agent"))

	const total = 200
	for i := 0; i < total; i++ {
		require.NoError(t, ch.Deliver(NewEnvelope("main_agent", "profile_agent", fmt.Sprintf("msg-%d", i), "request", nil)))
	}

	var mu sync.Mutex
	seen := make(map[string]int)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := ch.Drain("profile_agent")
			mu.Lock()
			for _, env := range got {
				seen[env.Content]++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Every envelope drained exactly once, none lost or duplicated.
	assert.Len(t, seen, total)
	for content, n := range seen {
		assert.Equal(t, 1, n, "envelope %s drained %d times", content, n)
	}
}

func TestChannel_ConcurrentDeliverDuringDrain(t *testing.T) {
	ch := NewChannel()
	ch.Register(testCard("health_agent"))

	const total = 100
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			_ = ch.Deliver(NewEnvelope("main_agent", "health_agent", fmt.Sprintf("msg-%d", i), "request", nil))
		}
	}()

	var drained []Envelope
	var mu sync.Mutex
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			got := ch.Drain("health_agent")
			mu.Lock()
			drained = append(drained, got...)
			mu.Unlock()
		}
	}()
	wg.Wait()

	drained = append(drained, ch.Drain("health_agent")...)
	assert.Len(t, drained, total)
}

func TestChannel_RecentTraffic(t *testing.T) {
	ch := NewChannel()
	ch.Register(testCard("login_agent"))

	assert.Equal(t, NoTrafficSentinel, ch.RecentTraffic("login_agent", 5))

	for i := 0; i < 7; i++ {
		require.NoError(t, ch.Deliver(NewEnvelope("main_agent", "login_agent", fmt.Sprintf("req-%d", i), "request", nil)))
	}

	got := ch.RecentTraffic("login_agent", 5)
	assert.Contains(t, got, "AGENT CONVERSATION HISTORY:")
	assert.Contains(t, got, "main_agent → login_agent: req-6")
	assert.NotContains(t, got, "req-1")
}

func TestChannel_ValidateTargets(t *testing.T) {
	ch := NewChannel()
	ch.Register(testCard("login_agent"))
	ch.Register(testCard("logout_agent"))

	assert.NoError(t, ch.ValidateTargets("login_agent", "logout_agent"))

	err := ch.ValidateTargets("login_agent", "health_agent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health_agent")
}

func TestNewEnvelope_IDAndMetadata(t *testing.T) {
	env := NewEnvelope("main_agent", "login_agent", "log me in", "request", map[string]any{
		MetaSessionID: "abc",
	})

	assert.Contains(t, env.ID, "main_agent-")
	assert.Equal(t, "abc", env.MetaString(MetaSessionID))
	assert.Empty(t, env.MetaString(MetaChatContext))
}
