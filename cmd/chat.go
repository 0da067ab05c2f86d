package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abcfit/fitbanker-go/internal/config"
	"github.com/abcfit/fitbanker-go/internal/orchestrator"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the agent system from the terminal",
	RunE:  runChat,
}

var (
	chatMessage   string
	chatSessionID string
)

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "Session token")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Terminal turns print all fragments at once; stream pacing only
	// matters over SSE and WebSocket.
	rt, err := buildRuntime(cfg, orchestrator.Pacing{})
	if err != nil {
		return err
	}
	defer rt.close()

	sessionID := chatSessionID

	turn := func(ctx context.Context, message string) {
		rt.orch.ProcessTurn(ctx, message, sessionID, func(e orchestrator.Event) {
			switch e.Type {
			case orchestrator.EventAgentMessage:
				fmt.Printf("🤖 %s: %s\n", e.Agent, e.Message)
			case orchestrator.EventSessionUpdate:
				sessionID = e.SessionID
			}
		})
	}

	if chatMessage != "" {
		turn(context.Background(), chatMessage)
		return nil
	}

	fmt.Println("🤖 fitbanker interactive mode (type 'exit' or Ctrl+C to quit)")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nGoodbye!")
		cancel()
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	exitCommands := map[string]bool{
		"exit": true, "quit": true, "/exit": true, "/quit": true, ":q": true,
	}

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if exitCommands[strings.ToLower(input)] {
			fmt.Println("Goodbye!")
			break
		}

		turn(ctx, input)
		fmt.Println()
	}

	return nil
}
