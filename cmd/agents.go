package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abcfit/fitbanker-go/internal/agents"
	"github.com/abcfit/fitbanker-go/internal/config"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the registered agents and their capabilities",
	RunE:  runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	specs, err := agents.LoadSpecs(cfg.AgentsFile)
	if err != nil {
		return fmt.Errorf("loading agent specs: %w", err)
	}

	boss := agents.BossCard()
	fmt.Printf("🤖 %s (%s)\n", boss.Name, boss.AgentID)
	fmt.Printf("   %s\n\n", boss.Description)

	for _, spec := range specs {
		auth := ""
		if spec.RequireAuth {
			auth = " 🔒"
		}
		fmt.Printf("• %s (%s)%s\n", spec.Name, spec.ID, auth)
		fmt.Printf("  %s\n", spec.Description)
		if len(spec.Capabilities) > 0 {
			fmt.Printf("  Capabilities: %s\n", strings.Join(spec.Capabilities, ", "))
		}
		fmt.Println()
	}

	return nil
}
