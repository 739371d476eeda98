package usecase

import (
	"context"

	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

// ShowConfigResult contains the stored overrides and the values in effect
type ShowConfigResult struct {
	Config     *config.LocalConfig
	ConfigPath string
	Exists     bool
	Effective  *config.RuntimeConfig
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigRepository
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigRepository) *ShowConfig {
	return &ShowConfig{
		config: cfg,
		store:  store,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	exists := uc.store.Exists()

	localConfig, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ShowConfigResult{
		Config:     localConfig,
		ConfigPath: uc.store.GetPath(),
		Exists:     exists,
		Effective:  uc.config,
	}, nil
}
