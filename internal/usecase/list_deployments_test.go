package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

func TestListDeployments(t *testing.T) {
	ctx := context.Background()
	deployments := []*models.Deployment{
		{ID: "hardhat/StlmAuction", Network: "hardhat", ContractName: "StlmAuction", Address: "0x1111111111111111111111111111111111111111", CreatedAt: time.Now()},
		{ID: "hardhat/StlmNFT", Network: "hardhat", ContractName: "StlmNFT", Address: "0x2222222222222222222222222222222222222222", CreatedAt: time.Now()},
		{ID: "rinkeby/StlmNFT", Network: "rinkeby", ContractName: "StlmNFT", Address: "0x3333333333333333333333333333333333333333", CreatedAt: time.Now()},
	}

	tests := []struct {
		name        string
		params      usecase.ListDeploymentsParams
		network     string
		stored      []*models.Deployment
		wantIDs     []string
		wantNetwork string
	}{
		{
			name:        "selected network",
			network:     "hardhat",
			stored:      deployments[:2],
			wantIDs:     []string{"hardhat/StlmAuction", "hardhat/StlmNFT"},
			wantNetwork: "hardhat",
		},
		{
			name:    "all networks",
			params:  usecase.ListDeploymentsParams{AllNetworks: true},
			network: "",
			stored:  deployments,
			wantIDs: []string{"hardhat/StlmAuction", "hardhat/StlmNFT", "rinkeby/StlmNFT"},
		},
		{
			name:    "filter by contract",
			params:  usecase.ListDeploymentsParams{AllNetworks: true, ContractName: "StlmNFT"},
			network: "",
			stored:  deployments,
			wantIDs: []string{"hardhat/StlmNFT", "rinkeby/StlmNFT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockDeploymentStore)
			store.On("ListDeployments", ctx, tt.network).Return(tt.stored, nil)
			sink := &MockProgressSink{}

			uc := usecase.NewListDeployments(newTestConfig(hardhatNetwork()), store, sink)
			result, err := uc.Run(ctx, tt.params)
			require.NoError(t, err)

			var ids []string
			for _, d := range result.Deployments {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantNetwork, result.Network)
			assert.Equal(t, []string{"loading", "complete"}, sink.stages())
			store.AssertExpectations(t)
		})
	}

	t.Run("store error", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("ListDeployments", ctx, "hardhat").Return(nil, errors.New("permission denied"))

		uc := usecase.NewListDeployments(newTestConfig(hardhatNetwork()), store, &MockProgressSink{})
		_, err := uc.Run(ctx, usecase.ListDeploymentsParams{})
		assert.EqualError(t, err, "permission denied")
	})
}
