package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// DeploymentsRenderer renders saved deployments grouped by network
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// Render writes one table per network
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	groups := lo.GroupBy(result.Deployments, func(d *models.Deployment) string { return d.Network })
	networks := lo.Keys(groups)
	sort.Strings(networks)

	for _, network := range networks {
		deployments := groups[network]
		fmt.Fprintln(r.out, headerStyle.Sprintf("%s (chain %d)", network, deployments[0].ChainID))

		t := newTable(table.Row{"Contract", "Address", "Block", "Verification", "Deployed"})
		for _, d := range deployments {
			t.AppendRow(table.Row{
				d.GetDisplayName(),
				addressStyle.Sprint(d.Address),
				d.BlockNumber,
				formatVerificationStatus(d.Verification.Status),
				timestampStyle.Sprint(d.CreatedAt.Format("2006-01-02 15:04:05")),
			})
		}
		fmt.Fprintln(r.out, t.Render())
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "Total deployments: %d\n", len(result.Deployments))
	return nil
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
