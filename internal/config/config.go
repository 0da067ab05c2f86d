// Package config handles configuration loading, saving, and schema definition.
package config

import (
	"os"
	"path/filepath"
)

// Config is the top-level fitbanker configuration.
// Uses json tags in camelCase to match the JSON config file format.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Provider ProviderConfig `json:"provider"`
	Redis    RedisConfig    `json:"redis"`
	Pacing   PacingConfig   `json:"pacing"`

	// AgentsFile points at an optional agents.yaml with specialist
	// overrides.
	AgentsFile string `json:"agentsFile,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port   int    `json:"port,omitempty"`
	APIKey string `json:"apiKey,omitempty"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `json:"path,omitempty"`
}

// ProviderConfig holds completion service settings.
type ProviderConfig struct {
	APIKey      string  `json:"apiKey,omitempty"`
	APIBase     string  `json:"apiBase,omitempty"`
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// RedisConfig holds optional session-cache settings.
type RedisConfig struct {
	URL      string `json:"url,omitempty"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
}

// PacingConfig holds inter-event stream delays in milliseconds.
type PacingConfig struct {
	PreThinkMs   int `json:"preThinkMs,omitempty"`
	PostThinkMs  int `json:"postThinkMs,omitempty"`
	PerMessageMs int `json:"perMessageMs,omitempty"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Server:   ServerConfig{Port: 8000},
		Database: DatabaseConfig{Path: filepath.Join(home, ".fitbanker", "fitbanker.db")},
		Provider: ProviderConfig{
			MaxTokens:   300,
			Temperature: 0.7,
		},
		Pacing: PacingConfig{
			PreThinkMs:   300,
			PostThinkMs:  500,
			PerMessageMs: 600,
		},
	}
}
