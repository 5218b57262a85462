package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"building-access-control/internal/storage"

	"github.com/spf13/cobra"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Manage employees",
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()

		var status *storage.EmployeeStatus
		if v, _ := cmd.Flags().GetString("status"); v != "" {
			switch v {
			case "active":
				s := storage.EmployeeStatusActive
				status = &s
			case "inactive":
				s := storage.EmployeeStatusInactive
				status = &s
			default:
				fmt.Println("Valid statuses: active, inactive")
				os.Exit(1)
			}
		}

		employees, err := provider.ListEmployees(ctx, nil, status)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list employees: %v\n", err)
			os.Exit(1)
		}
		if len(employees) == 0 {
			fmt.Println("No employees found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTATUS\tORG ID\tROLE ID")
		for _, e := range employees {
			roleID := "-"
			if e.RoleID != nil {
				roleID = fmt.Sprintf("%d", *e.RoleID)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
				e.ID, e.Name, e.Email, e.Status, e.OrganizationID, roleID)
		}
		w.Flush()
		fmt.Printf("\nTotal employees: %d\n", len(employees))
	},
}

var employeesDeactivateExpiredCmd = &cobra.Command{
	Use:   "deactivate-expired",
	Short: "Deactivate employees of organizations with only expired leases",
	Long: `Deactivate employees (and their cards) belonging to organizations whose
leases have all ended. Intended to run from a scheduler.`,
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()

		count, err := provider.DeactivateEmployeesOfExpiredLeases(ctx, time.Now().UTC())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to deactivate employees: %v\n", err)
			os.Exit(1)
		}
		if count == 0 {
			fmt.Println("No employees to deactivate")
		} else {
			fmt.Printf("Deactivated %d employee(s)\n", count)
		}
	},
}

func init() {
	employeesListCmd.Flags().StringP("status", "s", "", "Filter by status (active, inactive)")
	employeesCmd.AddCommand(employeesListCmd)
	employeesCmd.AddCommand(employeesDeactivateExpiredCmd)
	rootCmd.AddCommand(employeesCmd)
}
