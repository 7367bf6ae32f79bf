package client

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

type artifactPayload struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	Characters int    `json:"characters"`
	UploadedAt string `json:"uploaded_at"`
	Active     bool   `json:"active"`
}

func KBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the knowledge base",
		Long:  "Upload, inspect, download, and delete the knowledge base document",
	}

	cmd.AddCommand(KBUploadCmd())
	cmd.AddCommand(KBShowCmd())
	cmd.AddCommand(KBDeleteCmd())
	cmd.AddCommand(KBDownloadCmd())

	return cmd
}

func KBUploadCmd() *cobra.Command {
	var additionalText string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document as the knowledge base",
		Long:  "Uploads a pdf, docx, csv, or txt file. Replaces the current knowledge base.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKBUpload(cmd, args[0], additionalText)
		},
	}

	cmd.Flags().StringVar(&additionalText, "additional-text", "", "Extra text appended to the extracted content")

	return cmd
}

func runKBUpload(cmd *cobra.Command, filePath, additionalText string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.UploadDocument("/kb", filePath, additionalText)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	var artifact artifactPayload
	if err := json.Unmarshal(resp.Data, &artifact); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Uploaded %s (%d characters extracted)\n", filepath.Base(artifact.FileName), artifact.Characters)
	return nil
}

func KBShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active knowledge base document",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/kb")
			if err != nil {
				return err
			}

			var artifact artifactPayload
			if err := json.Unmarshal(resp.Data, &artifact); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("File: %s\n", artifact.FileName)
			fmt.Printf("Characters: %d\n", artifact.Characters)
			fmt.Printf("Uploaded: %s\n", artifact.UploadedAt)
			return nil
		},
	}
}

func KBDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the knowledge base document",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if _, err := api.Delete("/kb"); err != nil {
				return err
			}

			fmt.Println("Knowledge base deleted")
			return nil
		},
	}
}

func KBDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the original knowledge base file",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/kb/download")
			if err != nil {
				return err
			}

			var payload struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal(resp.Data, &payload); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if output == "" {
				meta, err := api.Get("/kb")
				if err != nil {
					return err
				}
				var artifact artifactPayload
				if err := json.Unmarshal(meta.Data, &artifact); err != nil {
					return fmt.Errorf("failed to parse response: %w", err)
				}
				output = filepath.Base(artifact.FileName)
			}

			if err := api.DownloadFile(payload.URL, output); err != nil {
				return err
			}

			fmt.Printf("Downloaded to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (defaults to the original file name)")

	return cmd
}
