package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/stlm-deploy/internal/cli/render"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [job]",
		Short: "Deploy a contract from the deployment plan",
		Long: `Deploy one of the jobs in plan.yaml using the first account configured for
the selected network (PRIVATE_KEY on public networks).

Built-in jobs:
  auction        StlmAuction
  sate-auction   SateAuction
  nft            StlmNFT

Without a job argument an interactive picker is shown.`,
		Example: `  stlm deploy nft --network rinkeby
  stlm deploy auction --confirmations 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var job string
			if len(args) > 0 {
				job = args[0]
			}
			return runDeploy(cmd, job)
		},
	}

	cmd.AddCommand(
		newDeployJobCmd("auction", "Deploy StlmAuction"),
		newDeployJobCmd("sate-auction", "Deploy SateAuction"),
		newDeployJobCmd("nft", "Deploy StlmNFT"),
	)

	return cmd
}

func newDeployJobCmd(job, short string) *cobra.Command {
	return &cobra.Command{
		Use:   job,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, job)
		},
	}
}

func runDeploy(cmd *cobra.Command, job string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if job == "" {
		job, err = app.Selector.SelectOption(ctx, app.DeployContract.Jobs(), "Select a contract to deploy")
		if err != nil {
			return fmt.Errorf("no deployment selected: %w", err)
		}
	}

	override, err := confirmationsOverride(cmd)
	if err != nil {
		return err
	}

	result, err := app.DeployContract.Run(ctx, usecase.DeployContractParams{
		Job:           job,
		Confirmations: override,
	})
	stopProgress(app)
	if err != nil {
		return err
	}

	return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
}
