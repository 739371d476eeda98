package usecase

import (
	"context"
	"fmt"
	"log/slog"

	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
)

// VerifyDeploymentParams contains parameters for verification
type VerifyDeploymentParams struct {
	// Name is the contract name, or Name:label for labelled deployments
	Name string
	// Force re-verifies deployments already marked verified
	Force bool
}

// VerifyResult contains the result of verification
type VerifyResult struct {
	Deployment *models.Deployment
	Skipped    bool
}

// VerifyDeployment handles contract verification on block explorers
type VerifyDeployment struct {
	config    *config.RuntimeConfig
	store     DeploymentStore
	contracts ContractRepository
	verifier  ContractVerifier
	sink      ProgressSink
	log       *slog.Logger
}

// NewVerifyDeployment creates a new verify deployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	store DeploymentStore,
	contracts ContractRepository,
	verifier ContractVerifier,
	sink ProgressSink,
	log *slog.Logger,
) *VerifyDeployment {
	return &VerifyDeployment{
		config:    cfg,
		store:     store,
		contracts: contracts,
		verifier:  verifier,
		sink:      sink,
		log:       log,
	}
}

// Run verifies a saved deployment on the selected network
func (uc *VerifyDeployment) Run(ctx context.Context, params VerifyDeploymentParams) (*VerifyResult, error) {
	if err := cfgpkg.RequireSecrets(uc.config.Secrets, cfgpkg.SecretEtherscanAPIKey); err != nil {
		return nil, err
	}
	network := uc.config.Network

	deployment, err := uc.store.GetDeployment(ctx, network.Name, params.Name)
	if err != nil {
		return nil, fmt.Errorf("deployment %s on %s: %w", params.Name, network.Name, err)
	}

	if deployment.Verification.Status == models.VerificationStatusVerified && !params.Force {
		return &VerifyResult{Deployment: deployment, Skipped: true}, nil
	}

	name := deployment.Artifact.Path
	if name == "" {
		name = deployment.ContractName
	}
	factory, err := uc.contracts.GetFactory(ctx, name)
	if err != nil {
		return nil, err
	}
	buildInfo, err := uc.contracts.GetBuildInfo(ctx, factory)
	if err != nil {
		return nil, fmt.Errorf("failed to load build-info for %s: %w", factory.Name, err)
	}

	ctx, cancel := withTimeout(ctx, uc.config.Timeout)
	defer cancel()

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "verify",
		Message: fmt.Sprintf("Verifying %s at %s", deployment.GetDisplayName(), deployment.Address),
		Spinner: true,
	})
	info, err := uc.verifier.Verify(ctx, VerificationRequest{
		Deployment: deployment,
		Factory:    factory,
		BuildInfo:  buildInfo,
		Network:    network,
		APIKey:     uc.config.Secrets.EtherscanAPIKey,
	})
	if err != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "failed"})
		return nil, err
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete"})

	deployment.Verification = *info
	if err := uc.store.SaveDeployment(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to update deployment: %w", err)
	}
	uc.log.Info("verification finished", "contract", deployment.GetDisplayName(), "status", info.Status)

	return &VerifyResult{Deployment: deployment}, nil
}
