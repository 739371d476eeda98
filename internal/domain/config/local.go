package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LocalConfig holds per-checkout defaults stored in .stlm/config.local.json.
// The JSON layout matches the viper keys it overrides.
type LocalConfig struct {
	Network       string              `json:"network,omitempty"`
	Timeout       string              `json:"timeout,omitempty"`
	Confirmations *LocalConfirmations `json:"confirmations,omitempty"`
}

// LocalConfirmations overrides the confirmation thresholds
type LocalConfirmations struct {
	Deploy *uint64 `json:"deploy,omitempty"`
	Mint   *uint64 `json:"mint,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork             ConfigKey = "network"
	ConfigKeyTimeout             ConfigKey = "timeout"
	ConfigKeyDeployConfirmations ConfigKey = "confirmations.deploy"
	ConfigKeyMintConfirmations   ConfigKey = "confirmations.mint"
)

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyTimeout,
		ConfigKeyDeployConfirmations,
		ConfigKeyMintConfirmations,
	}
}

// ParseConfigKey normalizes and validates a key
func ParseConfigKey(key string) (ConfigKey, error) {
	k := ConfigKey(strings.ToLower(strings.TrimSpace(key)))
	for _, valid := range ValidConfigKeys() {
		if k == valid {
			return k, nil
		}
	}
	keys := make([]string, 0, len(ValidConfigKeys()))
	for _, valid := range ValidConfigKeys() {
		keys = append(keys, string(valid))
	}
	return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", key, strings.Join(keys, ", "))
}

// Get returns the stored value for key, or "" when unset
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyNetwork:
		return c.Network
	case ConfigKeyTimeout:
		return c.Timeout
	case ConfigKeyDeployConfirmations:
		if c.Confirmations != nil && c.Confirmations.Deploy != nil {
			return strconv.FormatUint(*c.Confirmations.Deploy, 10)
		}
	case ConfigKeyMintConfirmations:
		if c.Confirmations != nil && c.Confirmations.Mint != nil {
			return strconv.FormatUint(*c.Confirmations.Mint, 10)
		}
	}
	return ""
}

// Set parses value for key and stores it
func (c *LocalConfig) Set(key ConfigKey, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case ConfigKeyNetwork:
		c.Network = value
	case ConfigKeyTimeout:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		c.Timeout = value
	case ConfigKeyDeployConfirmations, ConfigKeyMintConfirmations:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid confirmation count %q", value)
		}
		if c.Confirmations == nil {
			c.Confirmations = &LocalConfirmations{}
		}
		if key == ConfigKeyDeployConfirmations {
			c.Confirmations.Deploy = &n
		} else {
			c.Confirmations.Mint = &n
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Unset clears key and returns the previous value
func (c *LocalConfig) Unset(key ConfigKey) string {
	old := c.Get(key)
	switch key {
	case ConfigKeyNetwork:
		c.Network = ""
	case ConfigKeyTimeout:
		c.Timeout = ""
	case ConfigKeyDeployConfirmations:
		if c.Confirmations != nil {
			c.Confirmations.Deploy = nil
		}
	case ConfigKeyMintConfirmations:
		if c.Confirmations != nil {
			c.Confirmations.Mint = nil
		}
	}
	if c.Confirmations != nil && c.Confirmations.Deploy == nil && c.Confirmations.Mint == nil {
		c.Confirmations = nil
	}
	return old
}
