package config

import (
	"time"

	"github.com/trebuchet-org/stlm-deploy/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // selected network profile

	// Execution settings
	Debug          bool
	LogLevel       string
	NonInteractive bool
	Timeout        time.Duration

	// Resolved configurations
	Secrets       Secrets
	Confirmations Confirmations
	Artifacts     ArtifactPaths
	Plan          *Plan
	Networks      map[string]*Network
}

// Network represents a named network profile
type Network struct {
	Name    string `toml:"-" json:"name"`
	RPCURL  string `toml:"url" json:"rpcUrl"`
	ChainID uint64 `toml:"chain_id,omitempty" json:"chainId,omitempty"`

	// RPCEnvVar names the variable the URL is read from, if any.
	RPCEnvVar string `toml:"-" json:"-"`

	// Accounts are private keys (usually ${PRIVATE_KEY}) authorised to sign.
	Accounts []string `toml:"accounts,omitempty" json:"-"`
	// Mnemonic is used when Accounts is empty.
	Mnemonic string `toml:"mnemonic,omitempty" json:"-"`

	ForkURL      string `toml:"fork_url,omitempty" json:"forkUrl,omitempty"`
	ExplorerURL  string `toml:"explorer_url,omitempty" json:"explorerUrl,omitempty"`
	EtherscanAPI string `toml:"etherscan_api,omitempty" json:"etherscanApi,omitempty"`

	// Confirm asks for confirmation before broadcasting.
	Confirm bool `toml:"confirm,omitempty" json:"confirm,omitempty"`
}

// Secrets holds the credentials and addresses read from the environment.
type Secrets struct {
	PrivateKey      string `env:"PRIVATE_KEY" validate:"required"`
	MnemonicPhrase  string `env:"MNEMONIC_PHRASE" validate:"required"`
	EtherscanAPIKey string `env:"ETHERSCAN_API_KEY" validate:"required"`
	ContractAddress string `env:"STLM_CONTRACT_ADDR" validate:"required"`
	Owner           string `env:"STLM_OWNER" validate:"required"`
}

// Confirmations holds the per-operation confirmation policies
type Confirmations struct {
	Deploy domain.ConfirmationPolicy
	Mint   domain.ConfirmationPolicy
}

// ArtifactPaths locates compiled contract descriptors
type ArtifactPaths struct {
	ArtifactsDir   string // hardhat artifacts (abi + bytecode)
	ABIDir         string // bare ABI documents
	BuildInfoDir   string
	DeploymentsDir string
}
