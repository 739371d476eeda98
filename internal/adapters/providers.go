package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/abi"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/devnode"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/fs"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/interactive"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/senders"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters/verification"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// ProvideEtherscanVerifier provides a verifier with default polling
func ProvideEtherscanVerifier(log *slog.Logger) *verification.EtherscanVerifier {
	return verification.NewEtherscanVerifier(log)
}

// ContractsSet provides artifact resolution and argument coercion
var ContractsSet = wire.NewSet(
	contracts.NewRepository,
	wire.Bind(new(usecase.ContractRepository), new(*contracts.Repository)),

	abi.NewCoercer,
	wire.Bind(new(usecase.ArgumentCoercer), new(*abi.Coercer)),
)

// SendersSet provides wallet construction
var SendersSet = wire.NewSet(
	senders.NewLoader,
	wire.Bind(new(usecase.WalletLoader), new(*senders.Loader)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*blockchain.Connector)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentStore), new(*deployments.FileRepository)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),
)

// VerificationSet provides block explorer verification
var VerificationSet = wire.NewSet(
	ProvideEtherscanVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.EtherscanVerifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractiveSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// DevNodeSet provides the local node manager
var DevNodeSet = wire.NewSet(
	devnode.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*devnode.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ContractsSet,
	SendersSet,
	BlockchainSet,
	FSSet,
	VerificationSet,
	InteractiveSet,
	DevNodeSet,
)
