package usecase

import (
	"context"
	"fmt"

	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigRepository
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(cfg *config.RuntimeConfig, store LocalConfigRepository) *SetConfig {
	return &SetConfig{
		config: cfg,
		store:  store,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := config.ParseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	value := params.Value
	if key == config.ConfigKeyNetwork {
		// A stored network that does not resolve would break every later command.
		network, err := cfgpkg.SelectNetwork(uc.config.Networks, value)
		if err != nil {
			return nil, err
		}
		value = network.Name
	}

	localConfig, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := localConfig.Set(key, value); err != nil {
		return nil, err
	}

	if err := uc.store.Save(ctx, localConfig); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: localConfig,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		Value:         localConfig.Get(key),
	}, nil
}
