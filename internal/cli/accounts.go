package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/stlm-deploy/internal/cli/render"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// NewAccountsCmd creates the accounts command
func NewAccountsCmd() *cobra.Command {
	var balances bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the signing accounts for the selected network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListAccounts.Run(cmd.Context(), usecase.ListAccountsParams{Balances: balances})
			if err != nil {
				return err
			}

			return render.NewAccountsRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&balances, "balances", false, "Fetch balances from the network")

	return cmd
}
