package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/stlm-deploy/internal/cli/render"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "verify <contract>",
		Short: "Verify a recorded deployment on Etherscan",
		Long: `Submit the source of a recorded deployment to Etherscan for verification.
Requires ETHERSCAN_API_KEY and the hardhat build-info of the artifact.`,
		Example: `  stlm verify StlmNFT --network rinkeby
  stlm verify StlmAuction --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.VerifyDeployment.Run(cmd.Context(), usecase.VerifyDeploymentParams{
				Name:  args[0],
				Force: force,
			})
			stopProgress(app)
			if err != nil {
				return err
			}

			return render.NewVerifyRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-verify even if already verified")

	return cmd
}
