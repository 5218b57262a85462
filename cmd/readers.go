package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"
	"text/tabwriter"

	"building-access-control/internal/storage"
	"building-access-control/internal/utils"

	"github.com/spf13/cobra"
)

var readersCmd = &cobra.Command{
	Use:   "readers",
	Short: "Manage reader provisioning",
	Long:  `Manage card reader provisioning, including listing, approving, and rejecting readers.`,
}

var readersListCmd = &cobra.Command{
	Use:   "list [status]",
	Short: "List readers",
	Long:  `List readers by status. Valid statuses: pending, approved, rejected. Defaults to pending.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()

		status := storage.ReaderStatusPending
		if len(args) > 0 {
			switch args[0] {
			case "pending":
				status = storage.ReaderStatusPending
			case "approved":
				status = storage.ReaderStatusApproved
			case "rejected":
				status = storage.ReaderStatusRejected
			default:
				fmt.Println("Valid statuses: pending, approved, rejected")
				os.Exit(1)
			}
		}

		readers, err := provider.ListReaders(ctx, status)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list readers: %v\n", err)
			os.Exit(1)
		}
		if len(readers) == 0 {
			fmt.Printf("No %s readers found\n", status)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "READER ID\tSTATUS\tCLIENT IP\tDOOR ID\tCREATED AT\tAPPROVED BY")
		for _, reader := range readers {
			approvedBy := ""
			if reader.ApprovedBy != nil {
				approvedBy = *reader.ApprovedBy
			}
			doorID := "-"
			if reader.DoorID != nil {
				doorID = fmt.Sprintf("%d", *reader.DoorID)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				reader.ReaderID,
				reader.Status,
				reader.ClientIP,
				doorID,
				reader.CreatedAt.Format("2006-01-02 15:04:05"),
				approvedBy,
			)
		}
		w.Flush()
	},
}

// getActiveUser returns a string identifying who is performing the action
// Format: username@hostname
func getActiveUser() string {
	username := "unknown"
	if currentUser, err := user.Current(); err == nil {
		username = currentUser.Username
	}

	hostname := "unknown"
	// Check environment variable first for SSH sessions
	if h := os.Getenv("SSH_CLIENT"); h != "" {
		ssh_client := strings.Split(h, " ")
		if len(ssh_client) > 0 {
			hostname = ssh_client[0]
		}
	} else if h, err := os.Hostname(); err == nil {
		hostname = h
	}

	return fmt.Sprintf("%s@%s", username, hostname)
}

var readersApproveCmd = &cobra.Command{
	Use:   "approve <reader_id>",
	Short: "Approve a pending reader and issue its API key",
	Long:  `Approve a pending reader. Prints the reader's API key exactly once; only its hash is stored.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()
		readerID := args[0]

		reader, err := provider.GetReader(ctx, readerID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to look up reader: %v\n", err)
			os.Exit(1)
		}
		if reader == nil {
			fmt.Fprintf(os.Stderr, "Reader %s not found\n", readerID)
			os.Exit(1)
		}
		if reader.Status == storage.ReaderStatusApproved {
			fmt.Printf("Reader %s is already approved\n", readerID)
			return
		}

		apiKey, err := utils.GenerateAPIKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate API key: %v\n", err)
			os.Exit(1)
		}
		keyHash, err := utils.HashAPIKey(apiKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to hash API key: %v\n", err)
			os.Exit(1)
		}

		approver := getActiveUser()
		if err := provider.UpdateReaderStatus(ctx, readerID, storage.ReaderStatusApproved, &approver); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to approve reader: %v\n", err)
			os.Exit(1)
		}
		if err := provider.SetReaderKeyHash(ctx, readerID, keyHash); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to store API key hash: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Reader %s approved by %s\n", readerID, approver)
		fmt.Printf("API key (shown once): %s\n", apiKey)
	},
}

var readersRejectCmd = &cobra.Command{
	Use:   "reject <reader_id>",
	Short: "Reject a pending reader",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()
		readerID := args[0]

		reader, err := provider.GetReader(ctx, readerID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to look up reader: %v\n", err)
			os.Exit(1)
		}
		if reader == nil {
			fmt.Fprintf(os.Stderr, "Reader %s not found\n", readerID)
			os.Exit(1)
		}
		if reader.Status == storage.ReaderStatusRejected {
			fmt.Printf("Reader %s is already rejected\n", readerID)
			return
		}

		approver := getActiveUser()
		if err := provider.UpdateReaderStatus(ctx, readerID, storage.ReaderStatusRejected, &approver); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reject reader: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Reader %s rejected by %s\n", readerID, approver)
	},
}

func init() {
	readersCmd.AddCommand(readersListCmd)
	readersCmd.AddCommand(readersApproveCmd)
	readersCmd.AddCommand(readersRejectCmd)
	rootCmd.AddCommand(readersCmd)
}
