package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func HistoryCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recent chat exchanges",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if clear {
				if _, err := api.Delete("/chat/history"); err != nil {
					return err
				}
				fmt.Println("History cleared")
				return nil
			}

			resp, err := api.Get("/chat/history")
			if err != nil {
				return err
			}

			var exchanges []struct {
				Question string `json:"question"`
				Answer   string `json:"answer"`
				At       string `json:"at"`
			}
			if err := json.Unmarshal(resp.Data, &exchanges); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if len(exchanges) == 0 {
				fmt.Println("No history")
				return nil
			}

			for _, e := range exchanges {
				fmt.Printf("[%s]\nQ: %s\nA: %s\n\n", e.At, e.Question, e.Answer)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the history instead of showing it")

	return cmd
}
