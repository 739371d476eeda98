package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

type deployFixture struct {
	cfg       *config.RuntimeConfig
	contracts *MockContractRepository
	coercer   *MockCoercer
	wallets   *MockWalletLoader
	wallet    *MockWallet
	connector *MockConnector
	client    *MockChainClient
	store     *MockDeploymentStore
	confirmer *MockConfirmer
	sink      *MockProgressSink
}

func newDeployFixture(network *config.Network) *deployFixture {
	return &deployFixture{
		cfg:       newTestConfig(network),
		contracts: new(MockContractRepository),
		coercer:   new(MockCoercer),
		wallets:   new(MockWalletLoader),
		wallet:    new(MockWallet),
		connector: new(MockConnector),
		client:    new(MockChainClient),
		store:     new(MockDeploymentStore),
		confirmer: new(MockConfirmer),
		sink:      &MockProgressSink{},
	}
}

func (f *deployFixture) useCase() *usecase.DeployContract {
	return usecase.NewDeployContract(f.cfg, f.contracts, f.coercer, f.wallets, f.connector, f.store, f.confirmer, f.sink, testLogger())
}

// expectLocal sets up everything that happens before the network is reached
func (f *deployFixture) expectLocal(contract string, raw []any) *models.ContractFactory {
	factory := testFactory(contract)
	f.wallets.On("FromMnemonic", cfgpkg.HardhatMnemonic, usecase.WalletAccounts).Return(f.wallet, nil)
	f.wallet.On("Accounts").Return([]models.Account{{Address: deployerAddr, Source: models.AccountSourceMnemonic}})
	f.contracts.On("GetFactory", mock.Anything, contract).Return(factory, nil)
	f.coercer.On("ConstructorArgs", factory, raw).Return(raw, nil)
	f.coercer.On("PackConstructor", factory, raw).Return([]byte{0xca, 0xfe}, nil)
	return factory
}

// expectConnect sets up the client up to transaction signing
func (f *deployFixture) expectConnect() {
	f.connector.On("Connect", mock.Anything, f.cfg.Network).Return(f.client, nil)
	f.client.On("ChainID").Return(big.NewInt(1337))
	f.client.On("Close").Return()
	f.wallet.On("TransactOpts", mock.Anything, deployerAddr, big.NewInt(1337)).Return(&bind.TransactOpts{From: deployerAddr}, nil)
}

func TestDeployContract(t *testing.T) {
	ctx := context.Background()
	auctionArgs := cfgpkg.DefaultPlan().Deployments["auction"].Args

	t.Run("deploys auction and records deployment", func(t *testing.T) {
		f := newDeployFixture(hardhatNetwork())
		factory := f.expectLocal("StlmAuction", auctionArgs)
		f.expectConnect()

		policy := domain.ConfirmationPolicy{Threshold: 0}
		f.client.On("Deploy", mock.Anything, mock.Anything, factory, auctionArgs, policy).
			Return(pendingTx(models.TransactionKindDeploy, deadAddr, policy, finalize), nil)
		f.client.On("CodeAt", mock.Anything, deadAddr).Return([]byte{0x60}, nil)
		f.contracts.On("GetBuildInfo", mock.Anything, factory).Return(&models.BuildInfo{ID: "abc", SolcLongVersion: "0.8.9+commit.e5eed63a"}, nil)

		var saved *models.Deployment
		f.store.On("SaveDeployment", mock.Anything, mock.AnythingOfType("*models.Deployment")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*models.Deployment) }).
			Return(nil)

		result, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "auction"})
		require.NoError(t, err)

		assert.Equal(t, deadAddr, result.Address())
		assert.Equal(t, deployerAddr, result.Deployer)
		assert.Equal(t, "StlmAuction", result.Request.Contract)
		assert.Equal(t, "hardhat", result.Request.Network)
		assert.Equal(t, domain.TxFinalized, result.Record.State)

		require.NotNil(t, saved)
		assert.Equal(t, deadAddr.Hex(), saved.Address)
		assert.Equal(t, txHash.Hex(), saved.TransactionHash)
		assert.Equal(t, uint64(1337), saved.ChainID)
		assert.Equal(t, uint64(42), saved.BlockNumber)
		assert.Equal(t, uint64(1_234_567), saved.GasUsed)
		assert.Equal(t, "0xcafe", saved.ConstructorArgs)
		assert.Equal(t, "contracts/StlmAuction.sol:StlmAuction", saved.Artifact.Path)
		assert.Equal(t, "abc", saved.Artifact.BuildInfoID)
		assert.Equal(t, models.VerificationStatusUnverified, saved.Verification.Status)
		assert.NotEmpty(t, saved.RunID)
		assert.NotEmpty(t, saved.Artifact.BytecodeHash)

		assert.Contains(t, f.sink.stages(), "deployed")
		f.client.AssertCalled(t, "Close")
		f.store.AssertExpectations(t)
	})

	t.Run("confirmations override the deploy threshold", func(t *testing.T) {
		f := newDeployFixture(hardhatNetwork())
		factory := f.expectLocal("StlmAuction", auctionArgs)
		f.expectConnect()

		override := uint64(3)
		policy := domain.ConfirmationPolicy{Threshold: override}
		f.client.On("Deploy", mock.Anything, mock.Anything, factory, auctionArgs, policy).
			Return(pendingTx(models.TransactionKindDeploy, deadAddr, policy, finalize), nil)
		f.client.On("CodeAt", mock.Anything, deadAddr).Return([]byte{0x60}, nil)
		f.contracts.On("GetBuildInfo", mock.Anything, factory).Return(nil, errors.New("no dbg file"))
		f.store.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)

		result, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "auction", Confirmations: &override})
		require.NoError(t, err)
		assert.Equal(t, uint64(4), result.Record.Confirmations)
	})

	t.Run("missing signer aborts before any network call", func(t *testing.T) {
		f := newDeployFixture(rinkebyNetwork())

		_, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "auction"})

		var missing *domain.MissingConfigurationError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"PRIVATE_KEY"}, missing.Keys)
		f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
		f.contracts.AssertNotCalled(t, "GetFactory", mock.Anything, mock.Anything)
		assert.Empty(t, f.connector.Calls)
	})

	t.Run("missing rpc url aborts before any network call", func(t *testing.T) {
		f := newDeployFixture(rinkebyNetwork("0x01"))
		f.wallets.On("FromPrivateKeys", []string{"0x01"}).Return(f.wallet, nil)

		_, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "nft"})

		var missing *domain.MissingConfigurationError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"RINKEBY_RPC_URL"}, missing.Keys)
		assert.Empty(t, f.connector.Calls)
	})

	t.Run("unknown job", func(t *testing.T) {
		f := newDeployFixture(hardhatNetwork())

		_, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "token"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auction, nft, sate-auction")
		assert.Empty(t, f.wallets.Calls)
	})

	t.Run("factory resolution failure is returned unchanged", func(t *testing.T) {
		f := newDeployFixture(hardhatNetwork())
		f.wallets.On("FromMnemonic", cfgpkg.HardhatMnemonic, usecase.WalletAccounts).Return(f.wallet, nil)
		resolveErr := &domain.FactoryResolutionError{Contract: "StlmNFT", Err: domain.ErrNotFound}
		f.contracts.On("GetFactory", mock.Anything, "StlmNFT").Return(nil, resolveErr)

		_, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "nft"})
		assert.Same(t, resolveErr, err)
		assert.Empty(t, f.connector.Calls)
	})

	t.Run("declined confirmation aborts", func(t *testing.T) {
		network := hardhatNetwork()
		network.Confirm = true
		f := newDeployFixture(network)
		f.expectLocal("StlmAuction", auctionArgs)
		f.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(false, nil)

		_, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "auction"})
		assert.ErrorIs(t, err, domain.ErrAborted)
		assert.Empty(t, f.connector.Calls)
	})

	t.Run("reverted deployment fails without saving", func(t *testing.T) {
		f := newDeployFixture(hardhatNetwork())
		factory := f.expectLocal("StlmAuction", auctionArgs)
		f.expectConnect()

		policy := domain.ConfirmationPolicy{}
		reverted := pendingTx(models.TransactionKindDeploy, deadAddr, policy, func(tr *domain.Tracker) {
			receipt := successReceipt()
			receipt.Status = types.ReceiptStatusFailed
			tr.Receipt(receipt)
		})
		f.client.On("Deploy", mock.Anything, mock.Anything, factory, auctionArgs, policy).Return(reverted, nil)

		_, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "auction"})
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)
		f.store.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
		f.client.AssertNotCalled(t, "CodeAt", mock.Anything, mock.Anything)
	})

	t.Run("submission failure", func(t *testing.T) {
		f := newDeployFixture(hardhatNetwork())
		factory := f.expectLocal("StlmAuction", auctionArgs)
		f.expectConnect()

		submitErr := &domain.NetworkError{Op: "deploy StlmAuction", Err: errors.New("connection refused")}
		f.client.On("Deploy", mock.Anything, mock.Anything, factory, auctionArgs, mock.Anything).Return(nil, submitErr)

		_, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "auction"})
		assert.ErrorIs(t, err, domain.ErrNetwork)
		f.store.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("empty code at address", func(t *testing.T) {
		f := newDeployFixture(hardhatNetwork())
		factory := f.expectLocal("StlmAuction", auctionArgs)
		f.expectConnect()

		policy := domain.ConfirmationPolicy{}
		f.client.On("Deploy", mock.Anything, mock.Anything, factory, auctionArgs, policy).
			Return(pendingTx(models.TransactionKindDeploy, deadAddr, policy, finalize), nil)
		f.client.On("CodeAt", mock.Anything, deadAddr).Return([]byte{}, nil)

		_, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "auction"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no code at")
	})

	t.Run("save failure is reported but not fatal", func(t *testing.T) {
		f := newDeployFixture(hardhatNetwork())
		factory := f.expectLocal("StlmAuction", auctionArgs)
		f.expectConnect()

		policy := domain.ConfirmationPolicy{}
		f.client.On("Deploy", mock.Anything, mock.Anything, factory, auctionArgs, policy).
			Return(pendingTx(models.TransactionKindDeploy, deadAddr, policy, finalize), nil)
		f.client.On("CodeAt", mock.Anything, deadAddr).Return([]byte{0x60}, nil)
		f.contracts.On("GetBuildInfo", mock.Anything, factory).Return(nil, errors.New("none"))
		f.store.On("SaveDeployment", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		result, err := f.useCase().Run(ctx, usecase.DeployContractParams{Job: "auction"})
		require.NoError(t, err)
		assert.Equal(t, deadAddr, result.Address())
		require.Len(t, f.sink.errors, 1)
		assert.Contains(t, f.sink.errors[0], "disk full")
	})
}

func TestDeployContract_Jobs(t *testing.T) {
	f := newDeployFixture(hardhatNetwork())
	assert.Equal(t, []string{"auction", "nft", "sate-auction"}, f.useCase().Jobs())
}
