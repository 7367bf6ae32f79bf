package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type botPayload struct {
	TenantID    string `json:"tenant_id"`
	BotUsername string `json:"bot_username"`
	WebhookURL  string `json:"webhook_url"`
	Language    string `json:"language"`
	Warning     string `json:"warning,omitempty"`
}

func BotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Manage the Telegram bot connection",
		Long:  "Connect, inspect, and disconnect the tenant's Telegram bot",
	}

	cmd.AddCommand(BotConnectCmd())
	cmd.AddCommand(BotShowCmd())
	cmd.AddCommand(BotDisconnectCmd())

	return cmd
}

func BotConnectCmd() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "connect <token>",
		Short: "Connect a Telegram bot",
		Long:  "Registers the bot token and points its webhook at the server. Running it again with a new token rotates the connection.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBotConnect(cmd, args[0], language)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Default answer language for the bot (uz, ru, en)")

	return cmd
}

func runBotConnect(cmd *cobra.Command, token, language string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	body := map[string]string{"token": token}
	if language != "" {
		body["language"] = language
	}

	resp, err := api.Post("/bot", body)
	if err != nil {
		return fmt.Errorf("failed to connect bot: %w", err)
	}

	var bot botPayload
	if err := json.Unmarshal(resp.Data, &bot); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Connected @%s (language: %s)\n", bot.BotUsername, bot.Language)
	fmt.Printf("Webhook: %s\n", bot.WebhookURL)
	if bot.Warning != "" {
		fmt.Printf("Warning: %s\n", bot.Warning)
	}
	return nil
}

func BotShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current bot connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/bot")
			if err != nil {
				return err
			}

			var bot botPayload
			if err := json.Unmarshal(resp.Data, &bot); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("Bot: @%s\n", bot.BotUsername)
			fmt.Printf("Language: %s\n", bot.Language)
			fmt.Printf("Webhook: %s\n", bot.WebhookURL)
			return nil
		},
	}
}

func BotDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if _, err := api.Delete("/bot"); err != nil {
				return err
			}

			fmt.Println("Bot disconnected")
			return nil
		},
	}
}
