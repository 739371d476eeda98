package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// DefaultPollInterval is how often receipts and heads are polled
const DefaultPollInterval = 2 * time.Second

// Connector dials configured networks
type Connector struct {
	log          *slog.Logger
	pollInterval time.Duration
}

// NewConnector creates a new connector
func NewConnector(log *slog.Logger) *Connector {
	return &Connector{log: log, pollInterval: DefaultPollInterval}
}

// Connect dials the network's RPC endpoint and verifies the chain ID
func (c *Connector) Connect(ctx context.Context, network *config.Network) (usecase.ChainClient, error) {
	rc, err := rpc.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, &domain.NetworkError{Op: fmt.Sprintf("connect to %s", network.Name), Err: err}
	}

	client, err := newClient(ctx, rc, network.ChainID, c.pollInterval, c.log.With("network", network.Name))
	if err != nil {
		rc.Close()
		return nil, err
	}
	return client, nil
}

// Client talks to a single chain. Transactions go through go-ethereum's
// bind package; receipts, heads and balances are read with w3.
type Client struct {
	rpc     *rpc.Client
	eth     *ethclient.Client
	w3      *w3.Client
	chainID *big.Int
	watcher *Watcher
	log     *slog.Logger
}

func newClient(ctx context.Context, rc *rpc.Client, expectedChainID uint64, interval time.Duration, log *slog.Logger) (*Client, error) {
	w3c := w3.NewClient(rc)

	var chainID uint64
	if err := w3c.CallCtx(ctx, eth.ChainID().Returns(&chainID)); err != nil {
		return nil, &domain.NetworkError{Op: "get chain ID", Err: err}
	}

	// A zero expected chain ID accepts whatever the node reports
	if expectedChainID != 0 && chainID != expectedChainID {
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrChainIDMismatch, expectedChainID, chainID)
	}

	log.Debug("connected", "chainId", chainID)

	return &Client{
		rpc:     rc,
		eth:     ethclient.NewClient(rc),
		w3:      w3c,
		chainID: new(big.Int).SetUint64(chainID),
		watcher: NewWatcher(w3c, interval, log),
		log:     log,
	}, nil
}

// ChainID returns the chain ID reported by the node
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Deploy broadcasts a contract creation transaction
func (c *Client) Deploy(ctx context.Context, opts *bind.TransactOpts, factory *models.ContractFactory, args []any, policy domain.ConfirmationPolicy) (*models.PendingTx, error) {
	if !factory.CanDeploy() {
		return nil, &domain.FactoryResolutionError{
			Contract: factory.Name,
			Path:     factory.Path,
			Err:      errors.New("no creation bytecode"),
		}
	}

	address, tx, _, err := bind.DeployContract(opts, factory.ABI, factory.Bytecode, c.eth, args...)
	if err != nil {
		return nil, submissionError("deploy "+factory.Name, err)
	}

	c.log.Debug("deployment broadcast", "contract", factory.Name, "hash", tx.Hash(), "address", address, "nonce", tx.Nonce())

	return c.track(ctx, tx, policy, &models.PendingTx{
		Kind:     models.TransactionKindDeploy,
		From:     opts.From,
		Contract: factory.Name,
		Address:  address,
	}), nil
}

// Invoke broadcasts a call to method on the contract at address
func (c *Client) Invoke(ctx context.Context, opts *bind.TransactOpts, factory *models.ContractFactory, address common.Address, method string, args []any, policy domain.ConfirmationPolicy) (*models.PendingTx, error) {
	bound := bind.NewBoundContract(address, factory.ABI, c.eth, c.eth, c.eth)
	tx, err := bound.Transact(opts, method, args...)
	if err != nil {
		return nil, submissionError(fmt.Sprintf("call %s.%s", factory.Name, method), err)
	}

	c.log.Debug("invocation broadcast", "contract", factory.Name, "method", method, "hash", tx.Hash(), "nonce", tx.Nonce())

	return c.track(ctx, tx, policy, &models.PendingTx{
		Kind:     models.TransactionKindInvoke,
		From:     opts.From,
		Contract: factory.Name,
		Method:   method,
		Address:  address,
	}), nil
}

func (c *Client) track(ctx context.Context, tx *types.Transaction, policy domain.ConfirmationPolicy, pending *models.PendingTx) *models.PendingTx {
	tracker := domain.NewTracker(policy)
	tracker.Hash(tx.Hash())

	pending.Hash = tx.Hash()
	pending.Nonce = tx.Nonce()
	pending.Tracker = tracker

	go c.watcher.Watch(ctx, tx.Hash(), tracker)
	return pending
}

// CodeAt returns the runtime code at address
func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	code, err := c.eth.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, &domain.NetworkError{Op: "get code", Err: err}
	}
	return code, nil
}

// BalanceAt returns the latest balance of address
func (c *Client) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	var balance *big.Int
	if err := c.w3.CallCtx(ctx, eth.Balance(address, nil).Returns(&balance)); err != nil {
		return nil, &domain.NetworkError{Op: "get balance", Err: err}
	}
	return balance, nil
}

// Close closes the underlying RPC connection
func (c *Client) Close() {
	c.rpc.Close()
}

// submissionError classifies a failure to broadcast. Only failures carrying
// revert data or an "execution reverted" message are reverts; node rejections
// such as insufficient funds or nonce errors are network failures.
func submissionError(op string, err error) error {
	if reason, ok := revertReason(err); ok {
		return &domain.TransactionRevertedError{Reason: reason, Err: err}
	}
	if strings.Contains(err.Error(), "execution reverted") {
		return &domain.TransactionRevertedError{Reason: err.Error(), Err: err}
	}
	return &domain.NetworkError{Op: op, Err: err}
}

// revertReason decodes the revert payload attached to a JSON-RPC error.
// Custom errors that do not unpack as Error(string) fall back to the message.
func revertReason(err error) (string, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return "", false
	}
	data, ok := dataErr.ErrorData().(string)
	if !ok || data == "" {
		return "", false
	}
	raw, decErr := hexutil.Decode(data)
	if decErr != nil || len(raw) < 4 {
		return "", false
	}
	if unpacked, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
		return unpacked, true
	}
	return err.Error(), true
}

var (
	_ usecase.ChainConnector = (*Connector)(nil)
	_ usecase.ChainClient    = (*Client)(nil)
)
