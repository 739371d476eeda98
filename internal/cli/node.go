package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/stlm-deploy/internal/cli/render"
)

// NewNodeCmd creates the node command
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local development node",
		Long: `Run a local node for the hardhat network profile. The node listens on the
port of the profile's RPC URL, uses chain ID 1337 and the development mnemonic,
and forks mainnet when MAINNET_RPC_URL is set. Requires anvil on PATH.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start the local node",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := getApp(cmd)
				if err != nil {
					return err
				}
				status, err := app.ManageNode.Start(cmd.Context())
				stopProgress(app)
				if err != nil {
					return err
				}
				return render.NewNodeStatusRenderer(cmd.OutOrStdout()).Render(status)
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the local node",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := getApp(cmd)
				if err != nil {
					return err
				}
				if err := app.ManageNode.Stop(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Local node stopped"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show local node status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := getApp(cmd)
				if err != nil {
					return err
				}
				status, err := app.ManageNode.Status(cmd.Context())
				if err != nil {
					return err
				}
				return render.NewNodeStatusRenderer(cmd.OutOrStdout()).Render(status)
			},
		},
		&cobra.Command{
			Use:   "logs",
			Short: "Follow the local node log",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := getApp(cmd)
				if err != nil {
					return err
				}
				return app.ManageNode.Logs(cmd.Context(), cmd.OutOrStdout())
			},
		},
	)

	return cmd
}
