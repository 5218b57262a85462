package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"building-access-control/internal/storage"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage access cards",
}

var cardsListCmd = &cobra.Command{
	Use:   "list [status]",
	Short: "List access cards",
	Long:  `List cards by status. Valid statuses: active, inactive, lost, blocked. Defaults to all.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()

		var status *storage.CardStatus
		if len(args) > 0 {
			s, ok := parseCardStatus(args[0])
			if !ok {
				fmt.Println("Valid statuses: active, inactive, lost, blocked")
				os.Exit(1)
			}
			status = &s
		}

		cards, err := provider.ListCards(ctx, status)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list cards: %v\n", err)
			os.Exit(1)
		}
		if len(cards) == 0 {
			fmt.Println("No cards found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CARD UID\tSTATUS\tEMPLOYEE ID\tISSUED AT")
		for _, card := range cards {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				card.CardUID,
				card.Status,
				card.EmployeeID,
				card.IssuedAt.Format("2006-01-02 15:04:05"),
			)
		}
		w.Flush()
	},
}

var cardsQRCmd = &cobra.Command{
	Use:   "qr <card_uid> <output.png>",
	Short: "Write a QR code image for a card UID",
	Long:  `Generate a printable QR code of a card UID, for readers that scan instead of tapping.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()
		cardUID, outFile := args[0], args[1]

		card, err := provider.FindCardByUID(ctx, cardUID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to look up card: %v\n", err)
			os.Exit(1)
		}
		if card == nil {
			fmt.Fprintf(os.Stderr, "Card %s not found\n", cardUID)
			os.Exit(1)
		}

		if err := qrcode.WriteFile(cardUID, qrcode.Medium, 256, outFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write QR code: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("QR code for %s written to %s\n", cardUID, outFile)
	},
}

func parseCardStatus(s string) (storage.CardStatus, bool) {
	switch s {
	case "active":
		return storage.CardStatusActive, true
	case "inactive":
		return storage.CardStatusInactive, true
	case "lost":
		return storage.CardStatusLost, true
	case "blocked":
		return storage.CardStatusBlocked, true
	}
	return "", false
}

func init() {
	cardsCmd.AddCommand(cardsListCmd)
	cardsCmd.AddCommand(cardsQRCmd)
	rootCmd.AddCommand(cardsCmd)
}
