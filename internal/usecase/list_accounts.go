package usecase

import (
	"context"
	"log/slog"

	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
)

// ListAccountsParams contains parameters for listing accounts
type ListAccountsParams struct {
	// Balances fetches each account's balance from the network
	Balances bool
}

// ListAccountsResult contains the signer accounts of the selected network
type ListAccountsResult struct {
	Network  string
	Accounts []models.Account
}

// ListAccounts lists the accounts the selected network can sign with
type ListAccounts struct {
	config    *config.RuntimeConfig
	wallets   WalletLoader
	connector ChainConnector
	log       *slog.Logger
}

// NewListAccounts creates a new ListAccounts use case
func NewListAccounts(cfg *config.RuntimeConfig, wallets WalletLoader, connector ChainConnector, log *slog.Logger) *ListAccounts {
	return &ListAccounts{
		config:    cfg,
		wallets:   wallets,
		connector: connector,
		log:       log,
	}
}

// Run executes the use case
func (uc *ListAccounts) Run(ctx context.Context, params ListAccountsParams) (*ListAccountsResult, error) {
	network := uc.config.Network

	wallet, err := loadNetworkWallet(uc.wallets, network)
	if err != nil {
		return nil, err
	}
	accounts := wallet.Accounts()

	if params.Balances {
		if err := cfgpkg.RequireRPC(network); err != nil {
			return nil, err
		}

		ctx, cancel := withTimeout(ctx, uc.config.Timeout)
		defer cancel()

		client, err := uc.connector.Connect(ctx, network)
		if err != nil {
			return nil, err
		}
		defer client.Close()

		for i := range accounts {
			balance, err := client.BalanceAt(ctx, accounts[i].Address)
			if err != nil {
				return nil, err
			}
			accounts[i].Balance = balance
		}
	}

	return &ListAccountsResult{
		Network:  network.Name,
		Accounts: accounts,
	}, nil
}
