package agents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSpecs_MissingFileUsesDefaults(t *testing.T) {
	specs, err := LoadSpecs(filepath.Join(t.TempDir(), "agents.yaml"))
	require.NoError(t, err)
	assert.Len(t, specs, 5)
}

func TestLoadSpecs_OverridesByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	yaml := `agents:
  - id: health_agent
    name: Wellness Coach
    system_prompt: "You are a wellness coach."
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	specs, err := LoadSpecs(path)
	require.NoError(t, err)
	require.Len(t, specs, 5)

	var health SpecialistSpec
	for _, s := range specs {
		if s.ID == HealthAgentID {
			health = s
		}
	}
	assert.Equal(t, "Wellness Coach", health.Name)
	assert.Equal(t, "You are a wellness coach.", health.SystemPrompt)
	// Untouched fields keep their defaults.
	assert.True(t, health.RequireAuth)
	assert.Equal(t, StatusAnswered, health.FallbackStatus)
}

func TestLoadSpecs_UnknownAgentRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agents:\n  - id: billing_agent\n"), 0644))

	_, err := LoadSpecs(path)
	assert.Error(t, err)
}
