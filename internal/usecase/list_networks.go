package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"
	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Check dials each network and reads its chain ID
	Check bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name      string
	ChainID   uint64
	RPCURL    string
	RPCEnvVar string
	Current   bool
	Checked   bool
	Error     error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	config    *config.RuntimeConfig
	connector ChainConnector
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, connector ChainConnector) *ListNetworks {
	return &ListNetworks{
		config:    cfg,
		connector: connector,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := lo.Keys(uc.config.Networks)
	sort.Strings(names)

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		network := uc.config.Networks[name]
		status := NetworkStatus{
			Name:      name,
			ChainID:   network.ChainID,
			RPCURL:    network.RPCURL,
			RPCEnvVar: network.RPCEnvVar,
			Current:   uc.config.Network != nil && uc.config.Network.Name == name,
		}

		if params.Check {
			status.Checked = true
			status.ChainID, status.Error = uc.check(ctx, network)
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}

func (uc *ListNetworks) check(ctx context.Context, network *config.Network) (uint64, error) {
	if err := cfgpkg.RequireRPC(network); err != nil {
		return network.ChainID, err
	}

	ctx, cancel := withTimeout(ctx, uc.config.Timeout)
	defer cancel()

	client, err := uc.connector.Connect(ctx, network)
	if err != nil {
		return network.ChainID, err
	}
	defer client.Close()

	return client.ChainID().Uint64(), nil
}
