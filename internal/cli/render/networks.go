package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the list of networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := "  "
		if network.Current {
			marker = "* "
		}

		switch {
		case network.Error != nil:
			fmt.Fprintf(r.out, "%s❌ %s - Error: %v\n", marker, network.Name, network.Error)
		case network.Checked:
			fmt.Fprintf(r.out, "%s✅ %s - Chain ID: %d\n", marker, network.Name, network.ChainID)
		default:
			fmt.Fprintf(r.out, "%s%s - Chain ID: %s%s\n", marker, network.Name, chainIDLabel(network.ChainID), rpcLabel(network))
		}
	}

	return nil
}

func chainIDLabel(id uint64) string {
	if id == 0 {
		return "any"
	}
	return fmt.Sprintf("%d", id)
}

func rpcLabel(network usecase.NetworkStatus) string {
	if network.RPCURL != "" {
		return ""
	}
	if network.RPCEnvVar != "" {
		return timestampStyle.Sprintf(" (set %s)", network.RPCEnvVar)
	}
	return timestampStyle.Sprint(" (no RPC URL)")
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
