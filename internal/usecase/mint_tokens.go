package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

// MintTokensParams contains parameters for minting
type MintTokensParams struct {
	// MetadataURIs overrides the plan's metadata URIs
	MetadataURIs []string
	// Confirmations overrides the configured mint threshold
	Confirmations *uint64
	// Observer receives every lifecycle event in order
	Observer func(domain.TxEvent)
}

// MintTokensResult contains the outcome of a mint
type MintTokensResult struct {
	Request domain.InvocationRequest
	Record  domain.TxRecord
}

// MintTokens calls batchMint on the deployed NFT contract, minting one token
// per metadata URI to STLM_OWNER.
type MintTokens struct {
	config    *config.RuntimeConfig
	contracts ContractRepository
	coercer   ArgumentCoercer
	wallets   WalletLoader
	connector ChainConnector
	confirmer Confirmer
	sink      ProgressSink
	log       *slog.Logger
}

// NewMintTokens creates a new MintTokens use case
func NewMintTokens(
	cfg *config.RuntimeConfig,
	contracts ContractRepository,
	coercer ArgumentCoercer,
	wallets WalletLoader,
	connector ChainConnector,
	confirmer Confirmer,
	sink ProgressSink,
	log *slog.Logger,
) *MintTokens {
	return &MintTokens{
		config:    cfg,
		contracts: contracts,
		coercer:   coercer,
		wallets:   wallets,
		connector: connector,
		confirmer: confirmer,
		sink:      sink,
		log:       log,
	}
}

// Run executes the mint
func (uc *MintTokens) Run(ctx context.Context, params MintTokensParams) (*MintTokensResult, error) {
	secrets := uc.config.Secrets
	if err := cfgpkg.RequireSecrets(secrets, cfgpkg.SecretMnemonicPhrase, cfgpkg.SecretContractAddress, cfgpkg.SecretOwner); err != nil {
		return nil, err
	}
	network := uc.config.Network
	if err := cfgpkg.RequireRPC(network); err != nil {
		return nil, err
	}

	job := uc.config.Plan.Mint
	uris := job.MetadataURIs
	if len(params.MetadataURIs) > 0 {
		uris = params.MetadataURIs
	}
	if len(uris) == 0 {
		return nil, fmt.Errorf("no metadata URIs to mint")
	}

	contractAddress := common.HexToAddress(strings.TrimSpace(secrets.ContractAddress))
	owner := common.HexToAddress(strings.TrimSpace(secrets.Owner))

	wallet, err := uc.wallets.FromMnemonic(secrets.MnemonicPhrase, WalletAccounts)
	if err != nil {
		return nil, err
	}
	sender, err := wallet.Account(owner)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", cfgpkg.EnvOwner, owner.Hex(), err)
	}

	factory, err := uc.contracts.GetFactory(ctx, job.Contract)
	if err != nil {
		return nil, err
	}

	// One recipient per URI; batchMint checks the lengths match.
	recipients := lo.Map(uris, func(string, int) any { return owner.Hex() })
	args, err := uc.coercer.MethodArgs(factory, job.Method, []any{recipients, lo.ToAnySlice(uris)})
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s.%s: %w", factory.Name, job.Method, err)
	}
	request := domain.NewInvocationRequest(factory.Name, contractAddress, job.Method, sender.Address, network.Name, args)

	if err := confirmBroadcast(ctx, uc.confirmer, network, fmt.Sprintf("Mint %d token(s) on %s at %s", len(uris), network.Name, contractAddress.Hex())); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, uc.config.Timeout)
	defer cancel()

	client, err := uc.connector.Connect(ctx, network)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	opts, err := wallet.TransactOpts(ctx, sender.Address, client.ChainID())
	if err != nil {
		return nil, err
	}

	policy := policyFor(uc.config.Confirmations.Mint, params.Confirmations)
	pending, err := client.Invoke(ctx, opts, factory, contractAddress, job.Method, args, policy)
	if err != nil {
		return nil, err
	}
	uc.log.Info("invocation broadcast", "contract", factory.Name, "method", job.Method, "hash", pending.Hash, "threshold", policy.Threshold)

	for event := range pending.Tracker.Subscribe(ctx) {
		if params.Observer != nil {
			params.Observer(event)
		}
	}

	record, err := pending.Tracker.Wait(ctx)
	if err != nil {
		return nil, waitError(fmt.Sprintf("wait for %s.%s", factory.Name, job.Method), err)
	}

	return &MintTokensResult{Request: request, Record: record}, nil
}
