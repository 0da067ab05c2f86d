package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abcfit/fitbanker-go/internal/config"
	"github.com/abcfit/fitbanker-go/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fitbanker HTTP server (SSE + WebSocket chat)",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Server port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	rt, err := buildRuntime(cfg, pacingFromConfig(cfg))
	if err != nil {
		return err
	}
	defer rt.close()

	fmt.Printf("🤖 Starting fitbanker on port %d (%d agents)...\n", cfg.Server.Port, rt.channel.AgentCount())

	srv := server.NewServer(server.Config{
		Port:   cfg.Server.Port,
		APIKey: cfg.Server.APIKey,
	}, rt.channel, rt.orch, rt.sessions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	return srv.Start(ctx)
}
