package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

func TestListAccounts(t *testing.T) {
	ctx := context.Background()
	accounts := []models.Account{
		{Address: deployerAddr, Index: 0, Source: models.AccountSourceMnemonic},
		{Address: ownerAddr, Index: 1, Source: models.AccountSourceMnemonic},
	}

	tests := []struct {
		name      string
		params    usecase.ListAccountsParams
		setup     func(*MockConnector, *MockChainClient)
		wantErr   error
		balances  []*big.Int
		connected bool
	}{
		{
			name:     "addresses only",
			params:   usecase.ListAccountsParams{},
			balances: []*big.Int{nil, nil},
		},
		{
			name:   "with balances",
			params: usecase.ListAccountsParams{Balances: true},
			setup: func(c *MockConnector, cl *MockChainClient) {
				c.On("Connect", mock.Anything, mock.Anything).Return(cl, nil)
				cl.On("BalanceAt", mock.Anything, deployerAddr).Return(big.NewInt(10), nil)
				cl.On("BalanceAt", mock.Anything, ownerAddr).Return(big.NewInt(20), nil)
				cl.On("Close").Return()
			},
			balances:  []*big.Int{big.NewInt(10), big.NewInt(20)},
			connected: true,
		},
		{
			name:   "balance failure",
			params: usecase.ListAccountsParams{Balances: true},
			setup: func(c *MockConnector, cl *MockChainClient) {
				c.On("Connect", mock.Anything, mock.Anything).Return(cl, nil)
				cl.On("BalanceAt", mock.Anything, deployerAddr).Return(nil, &domain.NetworkError{Op: "get balance", Err: errors.New("eof")})
				cl.On("Close").Return()
			},
			wantErr:   domain.ErrNetwork,
			connected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(hardhatNetwork())
			wallets := new(MockWalletLoader)
			wallet := new(MockWallet)
			connector := new(MockConnector)
			client := new(MockChainClient)

			wallets.On("FromMnemonic", cfgpkg.HardhatMnemonic, usecase.WalletAccounts).Return(wallet, nil)
			wallet.On("Accounts").Return(append([]models.Account(nil), accounts...))
			if tt.setup != nil {
				tt.setup(connector, client)
			}

			uc := usecase.NewListAccounts(cfg, wallets, connector, testLogger())
			result, err := uc.Run(ctx, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "hardhat", result.Network)
				require.Len(t, result.Accounts, 2)
				for i, want := range tt.balances {
					assert.Equal(t, want, result.Accounts[i].Balance)
				}
			}

			if tt.connected {
				client.AssertCalled(t, "Close")
			} else {
				assert.Empty(t, connector.Calls)
			}
		})
	}
}

func TestListAccounts_NoSigner(t *testing.T) {
	cfg := newTestConfig(rinkebyNetwork())
	connector := new(MockConnector)

	uc := usecase.NewListAccounts(cfg, new(MockWalletLoader), connector, testLogger())
	_, err := uc.Run(context.Background(), usecase.ListAccountsParams{Balances: true})

	assert.ErrorIs(t, err, domain.ErrMissingConfiguration)
	assert.Empty(t, connector.Calls)
}
