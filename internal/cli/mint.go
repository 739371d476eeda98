package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/stlm-deploy/internal/cli/render"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// NewMintCmd creates the mint command
func NewMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint [metadata-uri...]",
		Short: "Mint NFTs through batchMint",
		Long: `Call batchMint on the NFT contract at STLM_CONTRACT_ADDR, minting one token
to STLM_OWNER per metadata URI. The transaction is signed by STLM_OWNER, which
must be one of the first accounts derived from MNEMONIC_PHRASE.

When no URIs are given the list from plan.yaml is used. The transaction hash,
each confirmation, the receipt and any error are printed as they happen.`,
		Example: `  stlm mint --network rinkeby
  stlm mint ipfs://QmA/1.json ipfs://QmA/2.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			override, err := confirmationsOverride(cmd)
			if err != nil {
				return err
			}

			renderer := render.NewMintRenderer(cmd.OutOrStdout())
			result, err := app.MintTokens.Run(cmd.Context(), usecase.MintTokensParams{
				MetadataURIs:  args,
				Confirmations: override,
				Observer:      renderer.OnEvent,
			})
			stopProgress(app)
			if err != nil {
				if renderer.Reported() != nil {
					return &ReportedError{Err: err}
				}
				return err
			}

			return renderer.Render(result)
		},
	}

	return cmd
}
