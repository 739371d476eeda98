//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/stlm-deploy/internal/adapters"
	"github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/logging"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewMintTokens,
		usecase.NewListAccounts,
		usecase.NewListNetworks,
		usecase.NewListDeployments,
		usecase.NewVerifyDeployment,
		usecase.NewManageNode,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
