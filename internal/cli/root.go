package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/progress"
	"github.com/trebuchet-org/stlm-deploy/internal/app"
	"github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stlm",
		Short: "Deploy the Starlink auction and NFT contracts and mint tokens",
		Long: `stlm deploys the pre-compiled StlmAuction, SateAuction and StlmNFT contracts
and mints NFTs through batchMint.

Credentials come from the environment (or .env): PRIVATE_KEY for deployments,
MNEMONIC_PHRASE, STLM_CONTRACT_ADDR and STLM_OWNER for minting, and
ETHERSCAN_API_KEY for verification.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// Find project root
			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			// Set up viper with the flags that were set
			v := config.SetupViper(projectRoot, cmd)

			// Initialize app with DI
			appInstance, err := app.InitApp(v, newProgressSink(v.GetBool("non_interactive")))
			if err != nil {
				return err
			}
			appInstance.Log.Debug("configuration loaded",
				"projectRoot", appInstance.Config.ProjectRoot,
				"network", appInstance.Config.Network.Name,
				"timeout", appInstance.Config.Timeout)

			// Store app in context
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (hardhat, rinkeby, mainnet or a profile from stlm.toml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Minute, "Maximum time to wait on the network")
	rootCmd.PersistentFlags().Uint64("confirmations", 0, "Blocks on top of the inclusion block required before success (overrides the configured threshold)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	mintCmd := NewMintCmd()
	mintCmd.GroupID = "main"
	rootCmd.AddCommand(mintCmd)

	verifyCmd := NewVerifyCmd()
	verifyCmd.GroupID = "main"
	rootCmd.AddCommand(verifyCmd)

	// Management commands
	accountsCmd := NewAccountsCmd()
	accountsCmd.GroupID = "management"
	rootCmd.AddCommand(accountsCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	deploymentsCmd := NewDeploymentsCmd()
	deploymentsCmd.GroupID = "management"
	rootCmd.AddCommand(deploymentsCmd)

	configCmd := NewConfigCmd()
	configCmd.GroupID = "management"
	rootCmd.AddCommand(configCmd)

	nodeCmd := NewNodeCmd()
	nodeCmd.GroupID = "management"
	rootCmd.AddCommand(nodeCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newProgressSink shows a spinner only when a person is watching stderr
func newProgressSink(nonInteractive bool) usecase.ProgressSink {
	if nonInteractive || !isatty.IsTerminal(os.Stderr.Fd()) {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSink()
}

// confirmationsOverride returns the --confirmations value if it was set
func confirmationsOverride(cmd *cobra.Command) (*uint64, error) {
	if !cmd.Flags().Changed("confirmations") {
		return nil, nil
	}
	n, err := cmd.Flags().GetUint64("confirmations")
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ReportedError marks a failure whose message was already written to the
// user. It still exits non-zero but is not printed again.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// stopProgress halts a running spinner before results are printed
func stopProgress(a *app.App) {
	if s, ok := a.Sink.(interface{ Stop() }); ok {
		s.Stop()
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
