package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

// ProjectFile is the project configuration file name
const ProjectFile = "stlm.toml"

// HardhatMnemonic is the well-known development mnemonic used by local nodes
const HardhatMnemonic = "test test test test test test test test test test test junk"

// ProjectTOML represents the raw stlm.toml structure
type ProjectTOML struct {
	Networks map[string]config.Network `toml:"networks"`
	Paths    struct {
		Artifacts   string `toml:"artifacts"`
		ABIs        string `toml:"abis"`
		BuildInfo   string `toml:"build_info"`
		Deployments string `toml:"deployments"`
	} `toml:"paths"`
}

// DefaultNetworks returns the built-in network profiles: a local fork of
// mainnet and two public networks signed with PRIVATE_KEY.
func DefaultNetworks() map[string]config.Network {
	return map[string]config.Network{
		"hardhat": {
			RPCURL:   "http://127.0.0.1:8545",
			ChainID:  1337,
			ForkURL:  "${MAINNET_RPC_URL}",
			Mnemonic: HardhatMnemonic,
		},
		"rinkeby": {
			RPCURL:       "${RINKEBY_RPC_URL}",
			ChainID:      4,
			Accounts:     []string{"${PRIVATE_KEY}"},
			ExplorerURL:  "https://rinkeby.etherscan.io",
			EtherscanAPI: "https://api-rinkeby.etherscan.io/api",
		},
		"mainnet": {
			RPCURL:       "${MAINNET_RPC_URL}",
			ChainID:      1,
			Accounts:     []string{"${PRIVATE_KEY}"},
			ExplorerURL:  "https://etherscan.io",
			EtherscanAPI: "https://api.etherscan.io/api",
			Confirm:      true,
		},
	}
}

// LoadProjectFile reads stlm.toml. A missing file yields an empty config.
func LoadProjectFile(projectRoot string) (*ProjectTOML, error) {
	var raw ProjectTOML
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &raw, nil
	}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}
	return &raw, nil
}

// ResolveNetworks merges project profiles over the defaults and expands
// ${VAR} references.
func ResolveNetworks(project *ProjectTOML, lookup LookupFunc) map[string]*config.Network {
	merged := DefaultNetworks()
	if project != nil {
		for name, n := range project.Networks {
			base, ok := merged[name]
			if !ok {
				merged[name] = n
				continue
			}
			merged[name] = overlayNetwork(base, n)
		}
	}

	networks := make(map[string]*config.Network, len(merged))
	for name, n := range merged {
		networks[name] = expandNetwork(name, n, lookup)
	}
	return networks
}

func overlayNetwork(base, over config.Network) config.Network {
	if over.RPCURL != "" {
		base.RPCURL = over.RPCURL
	}
	if over.ChainID != 0 {
		base.ChainID = over.ChainID
	}
	if len(over.Accounts) > 0 {
		base.Accounts = over.Accounts
		base.Mnemonic = ""
	}
	if over.Mnemonic != "" {
		base.Mnemonic = over.Mnemonic
		base.Accounts = nil
	}
	if over.ForkURL != "" {
		base.ForkURL = over.ForkURL
	}
	if over.ExplorerURL != "" {
		base.ExplorerURL = over.ExplorerURL
	}
	if over.EtherscanAPI != "" {
		base.EtherscanAPI = over.EtherscanAPI
	}
	base.Confirm = base.Confirm || over.Confirm
	return base
}

func expandNetwork(name string, n config.Network, lookup LookupFunc) *config.Network {
	out := n
	out.Name = name

	if envVar, ok := DetectEnvVar(n.RPCURL); ok {
		out.RPCEnvVar = envVar
	}
	out.RPCURL = ExpandValue(n.RPCURL, lookup)
	if out.RPCURL == "" {
		// Fall back to the conventional <NAME>_RPC_URL variable.
		envVar := GenerateEnvVarName(name)
		out.RPCEnvVar = envVar
		out.RPCURL, _ = lookup(envVar)
	}

	out.ForkURL = ExpandValue(n.ForkURL, lookup)
	out.Mnemonic = ExpandValue(n.Mnemonic, lookup)
	out.Accounts = lo.Filter(
		lo.Map(n.Accounts, func(a string, _ int) string { return strings.TrimSpace(ExpandValue(a, lookup)) }),
		func(a string, _ int) bool { return a != "" },
	)
	return &out
}

// SelectNetwork returns the named profile
func SelectNetwork(networks map[string]*config.Network, name string) (*config.Network, error) {
	if n, ok := networks[name]; ok {
		return n, nil
	}
	if n, ok := networks[strings.ToLower(name)]; ok {
		return n, nil
	}
	names := lo.Keys(networks)
	sort.Strings(names)
	return nil, fmt.Errorf("unknown network %q (available: %s)", name, strings.Join(names, ", "))
}

// RequireRPC fails with MissingConfigurationError when the network has no RPC URL
func RequireRPC(network *config.Network) error {
	if strings.TrimSpace(network.RPCURL) != "" {
		return nil
	}
	key := network.RPCEnvVar
	if key == "" {
		key = fmt.Sprintf("networks.%s.url", network.Name)
	}
	return &domain.MissingConfigurationError{Keys: []string{key}}
}
