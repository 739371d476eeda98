package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/samber/lo"
	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
)

// DeployContractParams contains parameters for deploying a contract
type DeployContractParams struct {
	// Job names a deployment in the plan (e.g. "auction", "nft")
	Job string
	// Confirmations overrides the configured deploy threshold
	Confirmations *uint64
}

// DeployContractResult contains the result of a deployment
type DeployContractResult struct {
	Request    domain.DeploymentRequest
	Deployment *models.Deployment
	Record     domain.TxRecord
	Deployer   common.Address
}

// Address returns the deployed contract address
func (r *DeployContractResult) Address() common.Address {
	return common.HexToAddress(r.Deployment.Address)
}

// DeployContract deploys one plan job and records the result
type DeployContract struct {
	config    *config.RuntimeConfig
	contracts ContractRepository
	coercer   ArgumentCoercer
	wallets   WalletLoader
	connector ChainConnector
	store     DeploymentStore
	confirmer Confirmer
	sink      ProgressSink
	log       *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	contracts ContractRepository,
	coercer ArgumentCoercer,
	wallets WalletLoader,
	connector ChainConnector,
	store DeploymentStore,
	confirmer Confirmer,
	sink ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		config:    cfg,
		contracts: contracts,
		coercer:   coercer,
		wallets:   wallets,
		connector: connector,
		store:     store,
		confirmer: confirmer,
		sink:      sink,
		log:       log,
	}
}

// Jobs returns the deployment job names in the plan
func (uc *DeployContract) Jobs() []string {
	if uc.config.Plan == nil {
		return nil
	}
	jobs := lo.Keys(uc.config.Plan.Deployments)
	sort.Strings(jobs)
	return jobs
}

// Run executes the deployment
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	network := uc.config.Network

	job, ok := uc.config.Plan.Job(params.Job)
	if !ok {
		return nil, fmt.Errorf("unknown deployment %q (available: %s)", params.Job, strings.Join(uc.Jobs(), ", "))
	}

	// Everything that can fail locally fails before the network is touched.
	wallet, err := loadNetworkWallet(uc.wallets, network)
	if err != nil {
		return nil, err
	}
	if err := cfgpkg.RequireRPC(network); err != nil {
		return nil, err
	}

	factory, err := uc.contracts.GetFactory(ctx, job.Contract)
	if err != nil {
		return nil, err
	}
	args, err := uc.coercer.ConstructorArgs(factory, job.Args)
	if err != nil {
		return nil, fmt.Errorf("invalid constructor arguments for %s: %w", factory.Name, err)
	}
	encodedArgs, err := uc.coercer.PackConstructor(factory, args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments for %s: %w", factory.Name, err)
	}

	request := domain.NewDeploymentRequest(factory.Name, job.Label, network.Name, args)
	deployer := wallet.Accounts()[0]

	if err := confirmBroadcast(ctx, uc.confirmer, network, fmt.Sprintf("Deploy %s to %s from %s", factory.Name, network.Name, deployer.Address.Hex())); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, uc.config.Timeout)
	defer cancel()

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "connect", Message: fmt.Sprintf("Connecting to %s", network.Name), Spinner: true})
	client, err := uc.connector.Connect(ctx, network)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	opts, err := wallet.TransactOpts(ctx, deployer.Address, client.ChainID())
	if err != nil {
		return nil, err
	}

	policy := policyFor(uc.config.Confirmations.Deploy, params.Confirmations)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "broadcast", Message: fmt.Sprintf("Deploying %s", factory.Name), Spinner: true})
	pending, err := client.Deploy(ctx, opts, factory, args, policy)
	if err != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "failed"})
		return nil, err
	}
	uc.log.Info("deployment broadcast", "contract", factory.Name, "hash", pending.Hash, "address", pending.Address, "threshold", policy.Threshold)

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "confirm", Message: fmt.Sprintf("Waiting for %s (%s)", factory.Name, pending.Hash.Hex()), Spinner: true})
	record, err := pending.Tracker.Wait(ctx)
	if err != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "failed"})
		return nil, waitError("wait for deployment of "+factory.Name, err)
	}

	code, err := client.CodeAt(ctx, pending.Address)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("no code at %s after deploying %s", pending.Address.Hex(), factory.Name)
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "deployed", Message: fmt.Sprintf("Deployed %s", factory.Name)})

	deployment := &models.Deployment{
		RunID:           uuid.NewString(),
		Network:         network.Name,
		ChainID:         client.ChainID().Uint64(),
		ContractName:    factory.Name,
		Label:           job.Label,
		Address:         pending.Address.Hex(),
		TransactionHash: pending.Hash.Hex(),
		Deployer:        deployer.Address.Hex(),
		Args:            job.Args,
		ConstructorArgs: hexutil.Encode(encodedArgs),
		ABI:             factory.RawABI,
		Artifact: models.ArtifactInfo{
			Path:         factory.FullyQualifiedName(),
			ArtifactFile: factory.Path,
			BytecodeHash: crypto.Keccak256Hash(factory.Bytecode).Hex(),
		},
		Verification: models.VerificationInfo{Status: models.VerificationStatusUnverified},
		CreatedAt:    time.Now().UTC(),
	}
	if record.Receipt != nil {
		deployment.BlockNumber = record.Receipt.BlockNumber.Uint64()
		deployment.GasUsed = record.Receipt.GasUsed
	}
	if info, err := uc.contracts.GetBuildInfo(ctx, factory); err == nil {
		deployment.Artifact.BuildInfoID = info.ID
		deployment.Artifact.CompilerVersion = info.SolcLongVersion
	} else {
		uc.log.Debug("no build-info for deployment", "contract", factory.Name, "error", err)
	}

	// The contract exists on chain at this point, so a failed save is reported
	// but does not fail the deployment.
	if err := uc.store.SaveDeployment(ctx, deployment); err != nil {
		uc.log.Warn("failed to save deployment", "contract", factory.Name, "error", err)
		uc.sink.Error(fmt.Sprintf("Warning: failed to save deployment: %v", err))
	}

	return &DeployContractResult{
		Request:    request,
		Deployment: deployment,
		Record:     record,
		Deployer:   deployer.Address,
	}, nil
}
