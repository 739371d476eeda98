package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// PlanFile is the deployment plan file name
const PlanFile = "plan.yaml"

// DefaultPlan returns the built-in jobs
func DefaultPlan() *config.Plan {
	return &config.Plan{
		Deployments: map[string]config.DeploymentJob{
			"auction": {
				Contract: "StlmAuction",
				Args: []any{
					"0xaEDd1fb4a1E1b3Ab201921D3e4FBE869D4A5988F",
					"0x5a168798df2b9d84e28958702156b036927a9e29",
					"0x42eD619fdb869d411f9e10BEFD2df4e3460c280F",
					"0x4C21De8A36fB3A6e18944047EF060492a77db79f",
				},
			},
			"sate-auction": {
				Contract: "SateAuction",
				Args: []any{
					"0x9da1E70E26156abC3B29260Df67d2aB65D761Ad6",
					"0x5a168798df2b9d84e28958702156b036927a9e29",
					"0x42eD619fdb869d411f9e10BEFD2df4e3460c280F",
					"0x4C21De8A36fB3A6e18944047EF060492a77db79f",
				},
			},
			"nft": {
				Contract: "StlmNFT",
				Args: []any{
					"0x42eD619fdb869d411f9e10BEFD2df4e3460c280F",
					"0x5a168798df2b9d84e28958702156b036927a9e29",
				},
			},
		},
		Mint: config.MintJob{
			Contract: "StlmNFT",
			Method:   "batchMint",
			MetadataURIs: []string{
				"https://starlink.mypinata.cloud/ipfs/QmSmV6ezZgN8Ay9xnt8ozvLGNGjeoRnxwvUnmvbBkgPhJ4",
			},
		},
	}
}

// LoadPlan reads plan.yaml from the project root and overlays it on the
// default plan. Jobs in the file replace default jobs of the same name.
func LoadPlan(projectRoot string) (*config.Plan, error) {
	plan := DefaultPlan()

	path := filepath.Join(projectRoot, PlanFile)
	data, err := os.ReadFile(path) //nolint:gosec // project path
	if os.IsNotExist(err) {
		return plan, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", PlanFile, err)
	}

	var file config.Plan
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", PlanFile, err)
	}

	for name, job := range file.Deployments {
		if job.Contract == "" {
			return nil, fmt.Errorf("%s: deployment %q has no contract", PlanFile, name)
		}
		plan.Deployments[name] = job
	}
	if file.Mint.Contract != "" {
		plan.Mint.Contract = file.Mint.Contract
	}
	if file.Mint.Method != "" {
		plan.Mint.Method = file.Mint.Method
	}
	if len(file.Mint.MetadataURIs) > 0 {
		plan.Mint.MetadataURIs = file.Mint.MetadataURIs
	}

	return plan, nil
}
