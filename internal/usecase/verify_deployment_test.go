package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

func savedNFT(status models.VerificationStatus) *models.Deployment {
	return &models.Deployment{
		ID:              "rinkeby/StlmNFT",
		Network:         "rinkeby",
		ChainID:         4,
		ContractName:    "StlmNFT",
		Address:         nftAddr.Hex(),
		ConstructorArgs: "0xcafe",
		Artifact:        models.ArtifactInfo{Path: "contracts/StlmNFT.sol:StlmNFT"},
		Verification:    models.VerificationInfo{Status: status},
		CreatedAt:       time.Now(),
	}
}

func TestVerifyDeployment(t *testing.T) {
	ctx := context.Background()

	newCfg := func(apiKey string) *config.RuntimeConfig {
		cfg := newTestConfig(rinkebyNetwork())
		cfg.Secrets.EtherscanAPIKey = apiKey
		return cfg
	}

	t.Run("verifies and saves status", func(t *testing.T) {
		cfg := newCfg("KEY")
		store := new(MockDeploymentStore)
		contracts := new(MockContractRepository)
		verifier := new(MockVerifier)

		deployment := savedNFT(models.VerificationStatusUnverified)
		factory := testFactory("StlmNFT")
		buildInfo := &models.BuildInfo{ID: "b1", SolcLongVersion: "0.8.9+commit.e5eed63a", Input: []byte(`{}`)}
		now := time.Now()

		store.On("GetDeployment", ctx, "rinkeby", "StlmNFT").Return(deployment, nil)
		contracts.On("GetFactory", ctx, "contracts/StlmNFT.sol:StlmNFT").Return(factory, nil)
		contracts.On("GetBuildInfo", ctx, factory).Return(buildInfo, nil)
		verifier.On("Verify", mock.Anything, mock.MatchedBy(func(req usecase.VerificationRequest) bool {
			return req.APIKey == "KEY" && req.Deployment == deployment && req.BuildInfo == buildInfo && req.Network.Name == "rinkeby"
		})).Return(&models.VerificationInfo{Status: models.VerificationStatusVerified, GUID: "g", VerifiedAt: &now}, nil)
		store.On("SaveDeployment", mock.Anything, deployment).Return(nil)

		uc := usecase.NewVerifyDeployment(cfg, store, contracts, verifier, &MockProgressSink{}, testLogger())
		result, err := uc.Run(ctx, usecase.VerifyDeploymentParams{Name: "StlmNFT"})
		require.NoError(t, err)

		assert.False(t, result.Skipped)
		assert.Equal(t, models.VerificationStatusVerified, result.Deployment.Verification.Status)
		assert.Equal(t, "g", result.Deployment.Verification.GUID)
		store.AssertExpectations(t)
		verifier.AssertExpectations(t)
	})

	t.Run("api key required", func(t *testing.T) {
		store := new(MockDeploymentStore)
		uc := usecase.NewVerifyDeployment(newCfg(""), store, new(MockContractRepository), new(MockVerifier), &MockProgressSink{}, testLogger())

		_, err := uc.Run(ctx, usecase.VerifyDeploymentParams{Name: "StlmNFT"})

		var missing *domain.MissingConfigurationError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"ETHERSCAN_API_KEY"}, missing.Keys)
		assert.Empty(t, store.Calls)
	})

	t.Run("already verified is skipped", func(t *testing.T) {
		store := new(MockDeploymentStore)
		verifier := new(MockVerifier)
		store.On("GetDeployment", ctx, "rinkeby", "StlmNFT").Return(savedNFT(models.VerificationStatusVerified), nil)

		uc := usecase.NewVerifyDeployment(newCfg("KEY"), store, new(MockContractRepository), verifier, &MockProgressSink{}, testLogger())
		result, err := uc.Run(ctx, usecase.VerifyDeploymentParams{Name: "StlmNFT"})
		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Empty(t, verifier.Calls)
	})

	t.Run("unknown deployment", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("GetDeployment", ctx, "rinkeby", "StlmAuction").Return(nil, domain.ErrNotFound)

		uc := usecase.NewVerifyDeployment(newCfg("KEY"), store, new(MockContractRepository), new(MockVerifier), &MockProgressSink{}, testLogger())
		_, err := uc.Run(ctx, usecase.VerifyDeploymentParams{Name: "StlmAuction"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("verifier error leaves record untouched", func(t *testing.T) {
		store := new(MockDeploymentStore)
		contracts := new(MockContractRepository)
		verifier := new(MockVerifier)
		factory := testFactory("StlmNFT")

		store.On("GetDeployment", ctx, "rinkeby", "StlmNFT").Return(savedNFT(models.VerificationStatusFailed), nil)
		contracts.On("GetFactory", ctx, mock.Anything).Return(factory, nil)
		contracts.On("GetBuildInfo", ctx, factory).Return(&models.BuildInfo{Input: []byte(`{}`)}, nil)
		verifier.On("Verify", mock.Anything, mock.Anything).Return(nil, errors.New("etherscan rejected verification: Invalid API Key"))

		uc := usecase.NewVerifyDeployment(newCfg("KEY"), store, contracts, verifier, &MockProgressSink{}, testLogger())
		_, err := uc.Run(ctx, usecase.VerifyDeploymentParams{Name: "StlmNFT"})
		assert.ErrorContains(t, err, "Invalid API Key")
		store.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})
}
