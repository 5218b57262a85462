package cmd

import (
	"context"
	"fmt"
	"os"

	"building-access-control/internal/roster"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import data from external systems",
}

var importEmployeesCmd = &cobra.Command{
	Use:   "employees <file.csv>",
	Short: "Import employees from a roster CSV",
	Long: `Import employees from an HR roster CSV export. Handles UTF-8 and UTF-16
files. Requires --org naming the organization the roster belongs to.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()

		orgID, _ := cmd.Flags().GetInt64("org")
		if orgID == 0 {
			fmt.Fprintln(os.Stderr, "--org is required")
			os.Exit(1)
		}

		org, err := provider.GetOrganization(ctx, orgID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to look up organization: %v\n", err)
			os.Exit(1)
		}
		if org == nil {
			fmt.Fprintf(os.Stderr, "Organization %d not found\n", orgID)
			os.Exit(1)
		}

		importer := roster.NewImporter(provider)
		result, err := importer.ImportFile(ctx, args[0], orgID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Imported %d employee(s), skipped %d\n", result.Imported, result.Skipped)
		for _, msg := range result.Errors {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
	},
}

func init() {
	importEmployeesCmd.Flags().Int64("org", 0, "Organization ID the roster belongs to")
	importCmd.AddCommand(importEmployeesCmd)
	rootCmd.AddCommand(importCmd)
}
