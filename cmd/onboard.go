package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abcfit/fitbanker-go/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize fitbanker configuration",
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(cmd *cobra.Command, args []string) error {
	configPath := config.GetConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists at %s\n", configPath)
	} else {
		os.MkdirAll(filepath.Dir(configPath), 0755)
		if err := config.Save(config.DefaultConfig(), ""); err != nil {
			return fmt.Errorf("creating config: %w", err)
		}
		fmt.Printf("✓ Created config at %s\n", configPath)
	}

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The SQLite store creates the file itself; just make sure the
	// directory is there.
	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		os.MkdirAll(dir, 0755)
		fmt.Printf("✓ Database directory at %s\n", dir)
	}

	fmt.Println("\n🤖 fitbanker is ready!")
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Add your API key to %s (or export OPENROUTER_API_KEY)\n", configPath)
	fmt.Println("  2. Chat: fitbanker chat -m \"Hello!\"")
	fmt.Println("  3. Serve: fitbanker serve")

	return nil
}
