package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

// Environment variables holding credentials and contract addresses
const (
	EnvPrivateKey      = "PRIVATE_KEY"
	EnvMnemonicPhrase  = "MNEMONIC_PHRASE"
	EnvEtherscanAPIKey = "ETHERSCAN_API_KEY"
	EnvContractAddress = "STLM_CONTRACT_ADDR"
	EnvOwner           = "STLM_OWNER"
)

// EnvLogLevel selects the log level (debug, info, warn, error)
const EnvLogLevel = "STLM_LOG_LEVEL"

// EnvFiles are loaded from the project root, in order. Values already present
// in the process environment are never overridden.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads .env files from the project root into the process environment
func LoadEnvFiles(projectRoot string) error {
	for _, name := range EnvFiles {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// ReadSecrets collects the credential and address variables
func ReadSecrets(lookup LookupFunc) config.Secrets {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	return config.Secrets{
		PrivateKey:      get(EnvPrivateKey),
		MnemonicPhrase:  get(EnvMnemonicPhrase),
		EtherscanAPIKey: get(EnvEtherscanAPIKey),
		ContractAddress: get(EnvContractAddress),
		Owner:           get(EnvOwner),
	}
}
