package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fitbanker",
	Short: "fitbanker — ABC+ Fit Banker conversational agent system",
	Long:  "fitbanker runs the ABC+ Fit Banker multi-agent assistant: a coordinating agent routes banking and fitness conversations to registration, login, profile, health and logout specialists.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
}
