package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBossDecision_Route(t *testing.T) {
	raw := `{"action":"route","to_agent":"login_agent","stream_messages":[{"content":"Let me log you in!"},{"content":"One moment..."}],"reasoning":"login keywords"}`

	d := parseBossDecision(raw)
	assert.Equal(t, ActionRoute, d.Action)
	assert.Equal(t, "login_agent", d.ToAgent)
	require.Len(t, d.StreamMessages, 2)
	assert.Equal(t, "Let me log you in!", d.StreamMessages[0].Content)
}

func TestParseBossDecision_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"action\":\"respond\",\"stream_messages\":[{\"content\":\"hi\"}]}\n```"

	d := parseBossDecision(raw)
	assert.Equal(t, ActionRespond, d.Action)
	require.Len(t, d.StreamMessages, 1)
	assert.Equal(t, "hi", d.StreamMessages[0].Content)
}

func TestParseBossDecision_MalformedFallsBackToRawText(t *testing.T) {
	d := parseBossDecision("Sure, I can help with that!")

	assert.Equal(t, ActionRespond, d.Action)
	require.Len(t, d.StreamMessages, 1)
	assert.Equal(t, "Sure, I can help with that!", d.StreamMessages[0].Content)
}

func TestParseBossDecision_EmptyMessagesSynthesized(t *testing.T) {
	// Valid JSON but no fragments: the message field fills in.
	d := parseBossDecision(`{"action":"respond","stream_messages":[],"message":"Hello!"}`)
	require.Len(t, d.StreamMessages, 1)
	assert.Equal(t, "Hello!", d.StreamMessages[0].Content)

	// No fragments and no message: static fallback.
	d = parseBossDecision(`{"action":"respond"}`)
	require.Len(t, d.StreamMessages, 1)
	assert.Equal(t, fallbackReply, d.StreamMessages[0].Content)

	// Completely empty model output still yields one fragment.
	d = parseBossDecision("")
	require.Len(t, d.StreamMessages, 1)
	assert.NotEmpty(t, d.StreamMessages[0].Content)
}

func TestParseBossDecision_UnknownActionNormalized(t *testing.T) {
	d := parseBossDecision(`{"action":"delegate","stream_messages":[{"content":"ok"}]}`)
	assert.Equal(t, ActionRespond, d.Action)
}

func TestParseSpecialistDecision_VerifyPayload(t *testing.T) {
	raw := `{"stream_messages":[{"content":"Checking..."}],"status":"verifying","verify_credentials":{"identifier":"a@b.com","password":"pw"}}`

	d := parseSpecialistDecision(raw, StatusCollecting)
	assert.Equal(t, StatusVerifying, d.Status)
	require.NotNil(t, d.VerifyCredentials)
	assert.Equal(t, "a@b.com", d.VerifyCredentials.Identifier)
}

func TestParseSpecialistDecision_MalformedUsesFallbackStatus(t *testing.T) {
	d := parseSpecialistDecision("I need your email first.", StatusCollecting)
	assert.Equal(t, StatusCollecting, d.Status)
	require.Len(t, d.StreamMessages, 1)
	assert.Equal(t, "I need your email first.", d.StreamMessages[0].Content)
}

func TestParseSpecialistDecision_BlankFragmentsDropped(t *testing.T) {
	raw := `{"stream_messages":[{"content":"  "},{"content":"real"}],"status":"answered"}`

	d := parseSpecialistDecision(raw, StatusAnswered)
	require.Len(t, d.StreamMessages, 1)
	assert.Equal(t, "real", d.StreamMessages[0].Content)
}
