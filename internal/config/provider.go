package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

// DefaultNetwork is used when no network is selected
const DefaultNetwork = "hardhat"

// Default confirmation thresholds. A deployment is accepted once it is mined;
// a mint waits for one more block on top of the inclusion block.
const (
	DefaultDeployThreshold uint64 = 0
	DefaultMintThreshold   uint64 = 1
)

// projectMarkers identify a project root
var projectMarkers = []string{ProjectFile, "hardhat.config.js", PlanFile}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	return ProviderWithLookup(v, os.LookupEnv)
}

// ProviderWithLookup builds the RuntimeConfig, resolving environment
// references through lookup. .env files are loaded first so that they are
// visible to os.LookupEnv.
func ProviderWithLookup(v *viper.Viper, lookup LookupFunc) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	if err := LoadEnvFiles(projectRoot); err != nil {
		return nil, err
	}

	project, err := LoadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	networks := ResolveNetworks(project, lookup)
	networkName := v.GetString("network")
	if networkName == "" {
		networkName = DefaultNetwork
	}
	network, err := SelectNetwork(networks, networkName)
	if err != nil {
		return nil, err
	}

	plan, err := LoadPlan(projectRoot)
	if err != nil {
		return nil, err
	}

	logLevel, _ := lookup(EnvLogLevel)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".stlm"),
		Network:        network,
		Networks:       networks,
		Debug:          v.GetBool("debug"),
		LogLevel:       logLevel,
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
		Secrets:        ReadSecrets(lookup),
		Confirmations: config.Confirmations{
			Deploy: domain.ConfirmationPolicy{Threshold: v.GetUint64("confirmations.deploy")},
			Mint:   domain.ConfirmationPolicy{Threshold: v.GetUint64("confirmations.mint")},
		},
		Artifacts: resolvePaths(projectRoot, project),
		Plan:      plan,
	}

	return cfg, nil
}

func resolvePaths(projectRoot string, project *ProjectTOML) config.ArtifactPaths {
	pick := func(value, def string) string {
		if value == "" {
			value = def
		}
		if filepath.IsAbs(value) {
			return value
		}
		return filepath.Join(projectRoot, value)
	}
	return config.ArtifactPaths{
		ArtifactsDir:   pick(project.Paths.Artifacts, "artifacts"),
		ABIDir:         pick(project.Paths.ABIs, "abis"),
		BuildInfoDir:   pick(project.Paths.BuildInfo, filepath.Join("artifacts", "build-info")),
		DeploymentsDir: pick(project.Paths.Deployments, "deployments"),
	}
}

// FindProjectRoot walks up from the current directory looking for a project
// marker. The current directory is used when none is found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".stlm"))

	// Set up environment variables
	v.SetEnvPrefix("STLM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("network", DefaultNetwork)
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("confirmations.deploy", DefaultDeployThreshold)
	v.SetDefault("confirmations.mint", DefaultMintThreshold)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if !f.Changed || !globalFlags[f.Name] {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// globalFlags are the persistent root flags that map onto viper keys
var globalFlags = map[string]bool{
	"network":         true,
	"debug":           true,
	"non-interactive": true,
	"timeout":         true,
}
