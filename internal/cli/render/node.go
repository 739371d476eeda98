package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/stlm-deploy/internal/domain"
)

// NodeStatusRenderer renders the local node status
type NodeStatusRenderer struct {
	out io.Writer
}

// NewNodeStatusRenderer creates a new node status renderer
func NewNodeStatusRenderer(out io.Writer) *NodeStatusRenderer {
	return &NodeStatusRenderer{out: out}
}

// Render writes the status block
func (r *NodeStatusRenderer) Render(status *domain.NodeStatus) error {
	fmt.Fprintln(r.out, headerStyle.Sprint("📊 Local Node Status:"))

	if !status.Running {
		fmt.Fprintln(r.out, failedStyle.Sprint("Status: 🔴 Not running"))
		fmt.Fprintln(r.out, timestampStyle.Sprintf("Log file: %s", status.LogFile))
		return nil
	}

	fmt.Fprintln(r.out, verifiedStyle.Sprintf("Status: 🟢 Running (PID %d)", status.PID))
	fmt.Fprintf(r.out, "RPC URL: %s\n", status.RPCURL)
	fmt.Fprintln(r.out, timestampStyle.Sprintf("Log file: %s", status.LogFile))

	if status.RPCHealthy {
		fmt.Fprintln(r.out, verifiedStyle.Sprintf("RPC Health: ✅ Chain ID %d, block %d", status.ChainID, status.BlockNumber))
	} else {
		fmt.Fprintln(r.out, failedStyle.Sprintf("RPC Health: ❌ Not responding (%s)", status.Error))
	}
	return nil
}

var _ Renderer[*domain.NodeStatus] = (*NodeStatusRenderer)(nil)
