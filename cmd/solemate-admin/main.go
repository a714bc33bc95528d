// Package main is the solemate-admin CLI: schema migrations and
// superuser bootstrap against the configured database.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "solemate-admin",
		Short: "SoleMate administration tool",
		Long: `solemate-admin manages a SoleMate deployment.
It reads the same CONFIG_FILE and environment variables as the API server.`,
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newCreateSuperuserCmd())
	return root
}
