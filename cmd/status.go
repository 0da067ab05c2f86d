package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abcfit/fitbanker-go/internal/config"
	"github.com/abcfit/fitbanker-go/internal/providers"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show fitbanker status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	configPath := config.GetConfigPath()
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println("🤖 fitbanker Status")
	fmt.Println()
	fmt.Printf("Config: %s\n", configPath)
	fmt.Printf("Database: %s\n", cfg.Database.Path)

	model := cfg.Provider.Model
	if model == "" {
		model = providers.DefaultDecisionModel
	}
	fmt.Printf("Model: %s\n", model)

	if cfg.Provider.APIKey != "" {
		fmt.Println("API key: ✓ (config)")
	} else {
		fmt.Println("API key: from environment")
	}

	if cfg.Redis.URL != "" {
		fmt.Printf("Session cache: redis (%s)\n", cfg.Redis.URL)
	} else {
		fmt.Println("Session cache: disabled")
	}

	if cfg.AgentsFile != "" {
		fmt.Printf("Agent overrides: %s\n", cfg.AgentsFile)
	}

	return nil
}
