package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"building-access-control/internal/storage"

	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect the access log",
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()

		limit, _ := cmd.Flags().GetInt("limit")
		deniedOnly, _ := cmd.Flags().GetBool("denied")
		cardUID, _ := cmd.Flags().GetString("card")

		filter := storage.AccessLogFilter{CardUID: cardUID}

		var logs []storage.AccessLog
		var err error
		if deniedOnly {
			logs, err = provider.ListDeniedAttempts(ctx, filter, limit)
		} else {
			logs, _, err = provider.ListAccessLogs(ctx, filter, 1, limit)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list access logs: %v\n", err)
			os.Exit(1)
		}
		if len(logs) == 0 {
			fmt.Println("No access log entries found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tCARD UID\tDOOR\tSTATUS\tREASON")
		for _, entry := range logs {
			reason := ""
			if entry.DenialReason != nil {
				reason = *entry.DenialReason
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				entry.Timestamp.Format("2006-01-02 15:04:05"),
				entry.CardUID,
				entry.DoorID,
				entry.Status,
				reason,
			)
		}
		w.Flush()
	},
}

var doorsCmd = &cobra.Command{
	Use:   "doors",
	Short: "List doors and their group assignments",
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()

		doors, err := provider.ListDoors(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list doors: %v\n", err)
			os.Exit(1)
		}
		if len(doors) == 0 {
			fmt.Println("No doors found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLOCATION\tGROUPS")
		for _, door := range doors {
			groups, err := provider.GroupsForDoor(ctx, door.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to list groups for door %d: %v\n", door.ID, err)
				os.Exit(1)
			}
			groupNames := "-"
			if len(groups) > 0 {
				groupNames = groups[0].Name
				for i := 1; i < len(groups); i++ {
					groupNames += ", " + groups[i].Name
				}
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", door.ID, door.Name, door.Location, groupNames)
		}
		w.Flush()
	},
}

func init() {
	logsCmd.Flags().IntP("limit", "n", 25, "Number of entries to show")
	logsCmd.Flags().Bool("denied", false, "Show only denied attempts")
	logsCmd.Flags().String("card", "", "Filter by card UID")
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(doorsCmd)
}
