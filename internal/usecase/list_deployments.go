package usecase

import (
	"context"

	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// AllNetworks lists every network instead of the selected one
	AllNetworks bool
	// ContractName filters by contract
	ContractName string
}

// DeploymentListResult contains the listed deployments
type DeploymentListResult struct {
	Network     string
	Deployments []*models.Deployment
	ByNetwork   map[string]int
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	store  DeploymentStore
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, store DeploymentStore, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		store:  store,
		sink:   sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments",
		Spinner: true,
	})

	network := ""
	if !params.AllNetworks {
		network = uc.config.Network.Name
	}

	deployments, err := uc.store.ListDeployments(ctx, network)
	if err != nil {
		return nil, err
	}

	result := &DeploymentListResult{
		Network:   network,
		ByNetwork: make(map[string]int),
	}
	for _, dep := range deployments {
		if params.ContractName != "" && dep.ContractName != params.ContractName {
			continue
		}
		result.Deployments = append(result.Deployments, dep)
		result.ByNetwork[dep.Network]++
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage: "complete",
	})

	return result, nil
}
