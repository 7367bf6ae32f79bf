package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javobly/javob/internal/cli"
	"github.com/javobly/javob/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "javob",
		Short: "Javob CLI - document-grounded AI assistant",
		Long: `Javob CLI manages a tenant's knowledge base and Telegram bot.

Environment variables:
  JAVOB_API_KEY   API key for authentication (required)
  JAVOB_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("api-key", "", "API key for authentication (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.KBCmd())
	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.HistoryCmd())
	rootCmd.AddCommand(client.BotCmd())

	cli.CheckHelpJSON(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
