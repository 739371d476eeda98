package usecase_test

import (
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
)

var (
	deployerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	ownerAddr    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	nftAddr      = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	deadAddr     = common.HexToAddress("0xDEaD00000000000000000000000000000000bEEF")
	txHash       = common.HexToHash("0x9f1c7c9b3f7cbd4f3f0b6b6e3d1d26f3a4a8b2b3c4d5e6f708192a3b4c5d6e7f")
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hardhatNetwork() *config.Network {
	return &config.Network{
		Name:     "hardhat",
		RPCURL:   "http://127.0.0.1:8545",
		ChainID:  1337,
		Mnemonic: cfgpkg.HardhatMnemonic,
	}
}

func rinkebyNetwork(accounts ...string) *config.Network {
	return &config.Network{
		Name:         "rinkeby",
		ChainID:      4,
		RPCEnvVar:    "RINKEBY_RPC_URL",
		Accounts:     accounts,
		EtherscanAPI: "https://api-rinkeby.etherscan.io/api",
	}
}

func newTestConfig(network *config.Network) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot: "/project",
		Network:     network,
		Networks:    map[string]*config.Network{network.Name: network},
		Timeout:     time.Minute,
		Confirmations: config.Confirmations{
			Deploy: domain.ConfirmationPolicy{Threshold: cfgpkg.DefaultDeployThreshold},
			Mint:   domain.ConfirmationPolicy{Threshold: cfgpkg.DefaultMintThreshold},
		},
		Plan: cfgpkg.DefaultPlan(),
	}
}

func testFactory(name string) *models.ContractFactory {
	return &models.ContractFactory{
		Name:       name,
		SourceName: "contracts/" + name + ".sol",
		Path:       "/project/artifacts/contracts/" + name + ".sol/" + name + ".json",
		RawABI:     []byte(`[]`),
		Bytecode:   []byte{0x60, 0x80, 0x60, 0x40},
	}
}

func successReceipt() *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      txHash,
		BlockNumber: big.NewInt(42),
		GasUsed:     1_234_567,
	}
}

// pendingTx returns a broadcast transaction whose tracker is driven by drive
func pendingTx(kind models.TransactionKind, address common.Address, policy domain.ConfirmationPolicy, drive func(*domain.Tracker)) *models.PendingTx {
	tracker := domain.NewTracker(policy)
	tracker.Hash(txHash)
	if drive != nil {
		drive(tracker)
	}
	return &models.PendingTx{
		Kind:    kind,
		Hash:    txHash,
		Address: address,
		Tracker: tracker,
	}
}

// finalize mines the transaction and adds confirmations up to the threshold
func finalize(t *domain.Tracker) {
	t.Receipt(successReceipt())
	for n := uint64(1); n <= t.Policy().Threshold+1; n++ {
		t.Confirmation(n)
	}
}
