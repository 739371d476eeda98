package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/stlm-deploy/internal/cli/render"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var (
		all          bool
		contractName string
	)

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				AllNetworks:  all,
				ContractName: contractName,
			})
			stopProgress(app)
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show deployments on every network")
	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")

	return cmd
}
