package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Show schema migration status",
	Long:  `Migrations run automatically on startup; this command reports the schema version the database is at.`,
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()

		version, err := provider.GetSchemaVersion(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read schema version: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Schema version: %d\n", version)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
