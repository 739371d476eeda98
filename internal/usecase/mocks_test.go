package usecase_test

import (
	"context"
	"io"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// MockContractRepository is a mock implementation of ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) GetFactory(ctx context.Context, name string) (*models.ContractFactory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContractFactory), args.Error(1)
}

func (m *MockContractRepository) ListContracts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockContractRepository) GetBuildInfo(ctx context.Context, factory *models.ContractFactory) (*models.BuildInfo, error) {
	args := m.Called(ctx, factory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BuildInfo), args.Error(1)
}

// MockCoercer is a mock implementation of ArgumentCoercer
type MockCoercer struct {
	mock.Mock
}

func (m *MockCoercer) ConstructorArgs(factory *models.ContractFactory, raw []any) ([]any, error) {
	args := m.Called(factory, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]any), args.Error(1)
}

func (m *MockCoercer) MethodArgs(factory *models.ContractFactory, method string, raw []any) ([]any, error) {
	args := m.Called(factory, method, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]any), args.Error(1)
}

func (m *MockCoercer) PackConstructor(factory *models.ContractFactory, values []any) ([]byte, error) {
	args := m.Called(factory, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockWalletLoader is a mock implementation of WalletLoader
type MockWalletLoader struct {
	mock.Mock
}

func (m *MockWalletLoader) FromPrivateKeys(keys []string) (usecase.Wallet, error) {
	args := m.Called(keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.Wallet), args.Error(1)
}

func (m *MockWalletLoader) FromMnemonic(phrase string, count int) (usecase.Wallet, error) {
	args := m.Called(phrase, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.Wallet), args.Error(1)
}

// MockWallet is a mock implementation of Wallet
type MockWallet struct {
	mock.Mock
}

func (m *MockWallet) Accounts() []models.Account {
	args := m.Called()
	return args.Get(0).([]models.Account)
}

func (m *MockWallet) Account(address common.Address) (models.Account, error) {
	args := m.Called(address)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *MockWallet) TransactOpts(ctx context.Context, from common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	args := m.Called(ctx, from, chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bind.TransactOpts), args.Error(1)
}

// MockConnector is a mock implementation of ChainConnector
type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Connect(ctx context.Context, network *config.Network) (usecase.ChainClient, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ChainClient), args.Error(1)
}

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) ChainID() *big.Int {
	args := m.Called()
	return args.Get(0).(*big.Int)
}

func (m *MockChainClient) Deploy(ctx context.Context, opts *bind.TransactOpts, factory *models.ContractFactory, values []any, policy domain.ConfirmationPolicy) (*models.PendingTx, error) {
	args := m.Called(ctx, opts, factory, values, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingTx), args.Error(1)
}

func (m *MockChainClient) Invoke(ctx context.Context, opts *bind.TransactOpts, factory *models.ContractFactory, address common.Address, method string, values []any, policy domain.ConfirmationPolicy) (*models.PendingTx, error) {
	args := m.Called(ctx, opts, factory, address, method, values, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingTx), args.Error(1)
}

func (m *MockChainClient) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockChainClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainClient) Close() {
	m.Called()
}

// MockDeploymentStore is a mock implementation of DeploymentStore
type MockDeploymentStore struct {
	mock.Mock
}

func (m *MockDeploymentStore) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	args := m.Called(ctx, deployment)
	return args.Error(0)
}

func (m *MockDeploymentStore) GetDeployment(ctx context.Context, network, name string) (*models.Deployment, error) {
	args := m.Called(ctx, network, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentStore) ListDeployments(ctx context.Context, network string) ([]*models.Deployment, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

// MockVerifier is a mock implementation of ContractVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, req usecase.VerificationRequest) (*models.VerificationInfo, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationInfo), args.Error(1)
}

// MockLocalConfigRepository is a mock implementation of LocalConfigRepository
type MockLocalConfigRepository struct {
	mock.Mock
}

func (m *MockLocalConfigRepository) Exists() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockLocalConfigRepository) Load(ctx context.Context) (*config.LocalConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.LocalConfig), args.Error(1)
}

func (m *MockLocalConfigRepository) Save(ctx context.Context, cfg *config.LocalConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockLocalConfigRepository) GetPath() string {
	args := m.Called()
	return args.String(0)
}

// MockNodeManager is a mock implementation of NodeManager
type MockNodeManager struct {
	mock.Mock
}

func (m *MockNodeManager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

func (m *MockNodeManager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

func (m *MockNodeManager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	args := m.Called(ctx, instance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NodeStatus), args.Error(1)
}

func (m *MockNodeManager) StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error {
	args := m.Called(ctx, instance, writer)
	return args.Error(0)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, message)
}

func (m *MockProgressSink) Error(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, message)
}

func (m *MockProgressSink) stages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Stage
	}
	return out
}
