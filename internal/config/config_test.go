package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 600, cfg.Pacing.PerMessageMs)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"port":9100}}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	// Unspecified sections fall back to defaults.
	assert.Equal(t, 300, cfg.Provider.MaxTokens)
	assert.Contains(t, cfg.Database.Path, "fitbanker.db")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Server.Port = 9200
	cfg.Provider.APIKey = "sk-or-test"
	cfg.Redis.URL = "redis://localhost:6379"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9200, loaded.Server.Port)
	assert.Equal(t, "sk-or-test", loaded.Provider.APIKey)
	assert.Equal(t, "redis://localhost:6379", loaded.Redis.URL)
}
