package usecase

import (
	"context"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
)

// ContractRepository resolves compiled contracts into factories
type ContractRepository interface {
	GetFactory(ctx context.Context, name string) (*models.ContractFactory, error)
	ListContracts(ctx context.Context) ([]string, error)
	GetBuildInfo(ctx context.Context, factory *models.ContractFactory) (*models.BuildInfo, error)
}

// ArgumentCoercer converts plan values into ABI-typed Go values
type ArgumentCoercer interface {
	ConstructorArgs(factory *models.ContractFactory, raw []any) ([]any, error)
	MethodArgs(factory *models.ContractFactory, method string, raw []any) ([]any, error)
	PackConstructor(factory *models.ContractFactory, args []any) ([]byte, error)
}

// WalletLoader builds wallets from key material
type WalletLoader interface {
	FromPrivateKeys(keys []string) (Wallet, error)
	FromMnemonic(phrase string, count int) (Wallet, error)
}

// Wallet signs transactions for a fixed set of accounts
type Wallet interface {
	Accounts() []models.Account
	// Account returns domain.ErrUnknownSender for addresses the wallet cannot sign for
	Account(address common.Address) (models.Account, error)
	TransactOpts(ctx context.Context, from common.Address, chainID *big.Int) (*bind.TransactOpts, error)
}

// ChainConnector opens clients for configured networks
type ChainConnector interface {
	Connect(ctx context.Context, network *config.Network) (ChainClient, error)
}

// ChainClient submits and observes transactions on one network.
//
// Deploy and Invoke return once the transaction is broadcast. The returned
// PendingTx carries a tracker that has seen the hash and is fed receipts and
// confirmations in the background until it reaches a terminal state or ctx
// ends.
type ChainClient interface {
	ChainID() *big.Int
	Deploy(ctx context.Context, opts *bind.TransactOpts, factory *models.ContractFactory, args []any, policy domain.ConfirmationPolicy) (*models.PendingTx, error)
	Invoke(ctx context.Context, opts *bind.TransactOpts, factory *models.ContractFactory, address common.Address, method string, args []any, policy domain.ConfirmationPolicy) (*models.PendingTx, error)
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	Close()
}

// DeploymentStore handles persistence of deployments
type DeploymentStore interface {
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
	GetDeployment(ctx context.Context, network, name string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, network string) ([]*models.Deployment, error)
}

// ContractVerifier handles contract verification
type ContractVerifier interface {
	Verify(ctx context.Context, req VerificationRequest) (*models.VerificationInfo, error)
}

// VerificationRequest bundles what a block explorer needs to verify a deployment
type VerificationRequest struct {
	Deployment *models.Deployment
	Factory    *models.ContractFactory
	BuildInfo  *models.BuildInfo
	Network    *config.Network
	APIKey     string
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// NodeManager runs the local development node
type NodeManager interface {
	Start(ctx context.Context, instance *domain.NodeInstance) error
	Stop(ctx context.Context, instance *domain.NodeInstance) error
	GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error)
	StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error
}

// InteractiveSelector lets the operator pick from a list
type InteractiveSelector interface {
	SelectOption(ctx context.Context, options []string, prompt string) (string, error)
}

// Confirmer asks the operator before irreversible actions
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
