package app

import (
	"log/slog"

	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector usecase.InteractiveSelector
	Sink     usecase.ProgressSink

	// Use cases
	DeployContract   *usecase.DeployContract
	MintTokens       *usecase.MintTokens
	ListAccounts     *usecase.ListAccounts
	ListNetworks     *usecase.ListNetworks
	ListDeployments  *usecase.ListDeployments
	VerifyDeployment *usecase.VerifyDeployment
	ManageNode       *usecase.ManageNode
	ShowConfig       *usecase.ShowConfig
	SetConfig        *usecase.SetConfig
	RemoveConfig     *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.InteractiveSelector,
	sink usecase.ProgressSink,
	deployContract *usecase.DeployContract,
	mintTokens *usecase.MintTokens,
	listAccounts *usecase.ListAccounts,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
	verifyDeployment *usecase.VerifyDeployment,
	manageNode *usecase.ManageNode,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		Selector:         selector,
		Sink:             sink,
		DeployContract:   deployContract,
		MintTokens:       mintTokens,
		ListAccounts:     listAccounts,
		ListNetworks:     listNetworks,
		ListDeployments:  listDeployments,
		VerifyDeployment: verifyDeployment,
		ManageNode:       manageNode,
		ShowConfig:       showConfig,
		SetConfig:        setConfig,
		RemoveConfig:     removeConfig,
	}, nil
}
