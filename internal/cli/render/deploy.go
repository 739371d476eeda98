package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// DeployRenderer prints a deployed contract as "<ContractName>: <address>"
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render writes the deployment line
func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	_, err := fmt.Fprintf(r.out, "%s: %s\n", result.Deployment.ContractName, result.Deployment.Address)
	return err
}

var _ Renderer[*usecase.DeployContractResult] = (*DeployRenderer)(nil)
