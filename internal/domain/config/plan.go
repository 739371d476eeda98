package config

// Plan lists the deployment jobs and the mint job
type Plan struct {
	Deployments map[string]DeploymentJob `yaml:"deployments"`
	Mint        MintJob                  `yaml:"mint"`
}

// DeploymentJob describes one contract deployment
type DeploymentJob struct {
	Contract string `yaml:"contract"`
	Label    string `yaml:"label,omitempty"`
	Args     []any  `yaml:"args,omitempty"`
}

// MintJob describes the batchMint invocation
type MintJob struct {
	Contract     string   `yaml:"contract"`
	Method       string   `yaml:"method"`
	MetadataURIs []string `yaml:"metadata_uris"`
}

// Job returns the named deployment job
func (p *Plan) Job(name string) (DeploymentJob, bool) {
	if p == nil {
		return DeploymentJob{}, false
	}
	job, ok := p.Deployments[name]
	return job, ok
}
