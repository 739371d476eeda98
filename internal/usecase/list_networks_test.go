package usecase_test

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

func TestListNetworks(t *testing.T) {
	ctx := context.Background()

	hardhat := hardhatNetwork()
	rinkeby := rinkebyNetwork()
	mainnet := &config.Network{Name: "mainnet", ChainID: 1, RPCURL: "https://mainnet.example"}

	cfg := newTestConfig(hardhat)
	cfg.Networks = map[string]*config.Network{
		"hardhat": hardhat,
		"rinkeby": rinkeby,
		"mainnet": mainnet,
	}

	t.Run("lists profiles without dialing", func(t *testing.T) {
		connector := new(MockConnector)
		result, err := usecase.NewListNetworks(cfg, connector).Run(ctx, usecase.ListNetworksParams{})
		require.NoError(t, err)

		require.Len(t, result.Networks, 3)
		assert.Equal(t, "hardhat", result.Networks[0].Name)
		assert.True(t, result.Networks[0].Current)
		assert.Equal(t, "mainnet", result.Networks[1].Name)
		assert.Equal(t, "rinkeby", result.Networks[2].Name)
		assert.Equal(t, "RINKEBY_RPC_URL", result.Networks[2].RPCEnvVar)
		assert.False(t, result.Networks[2].Checked)
		assert.Empty(t, connector.Calls)
	})

	t.Run("check dials reachable networks", func(t *testing.T) {
		connector := new(MockConnector)
		client := new(MockChainClient)
		client.On("ChainID").Return(big.NewInt(1337))
		client.On("Close").Return()
		connector.On("Connect", mock.Anything, hardhat).Return(client, nil)
		connector.On("Connect", mock.Anything, mainnet).
			Return(nil, fmt.Errorf("%w: expected 1, got 5", domain.ErrChainIDMismatch))

		result, err := usecase.NewListNetworks(cfg, connector).Run(ctx, usecase.ListNetworksParams{Check: true})
		require.NoError(t, err)

		byName := map[string]usecase.NetworkStatus{}
		for _, n := range result.Networks {
			byName[n.Name] = n
		}

		assert.NoError(t, byName["hardhat"].Error)
		assert.Equal(t, uint64(1337), byName["hardhat"].ChainID)
		assert.ErrorIs(t, byName["mainnet"].Error, domain.ErrChainIDMismatch)
		assert.ErrorIs(t, byName["rinkeby"].Error, domain.ErrMissingConfiguration)
		connector.AssertNotCalled(t, "Connect", mock.Anything, rinkeby)
	})
}
