package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javobly/javob/internal/cli"
	"github.com/javobly/javob/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "javobd",
		Short: "Javob daemon and admin CLI",
		Long:  "Javob daemon for running the API server and managing tenants and API keys",
	}

	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.TenantCmd())
	rootCmd.AddCommand(admin.APIKeyCmd())

	cli.CheckHelpJSON(rootCmd)

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
