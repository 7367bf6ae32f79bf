package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func AskCmd() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question against the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "), language)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Answer language (uz, ru, en; detected from the question if omitted)")

	return cmd
}

func runAsk(cmd *cobra.Command, question, language string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	body := map[string]string{"message": question}
	if language != "" {
		body["language"] = language
	}

	raw, err := api.PostRaw("/chat", body)
	if err != nil {
		return err
	}

	var payload struct {
		Response string `json:"response"`
		Success  bool   `json:"success"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Println(payload.Response)
	return nil
}
