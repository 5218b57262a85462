package cmd

import (
	"fmt"
	"os"

	jwt "building-access-control/internal/jwt"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Issue an operator token for the management API",
	Long: `Issue a bearer token for an operator. The operator's permissions come from
the RBAC policy file; roles passed with --role are embedded in the token for
reference only.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()

		roles, _ := cmd.Flags().GetStringSlice("role")
		token, err := jwt.GenerateJWT(jwt.NewOperatorClaim(args[0], roles))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	tokenCmd.Flags().StringSlice("role", nil, "Role names to embed in the token")
	rootCmd.AddCommand(tokenCmd)
}
