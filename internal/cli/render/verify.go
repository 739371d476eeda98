package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// VerifyRenderer renders verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render writes the verification outcome
func (r *VerifyRenderer) Render(result *usecase.VerifyResult) error {
	d := result.Deployment
	if result.Skipped {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is already verified. Use --force to re-verify.", d.GetDisplayName())))
		return nil
	}

	info := d.Verification
	fmt.Fprintf(r.out, "%s at %s: %s\n", d.GetDisplayName(), d.Address, formatVerificationStatus(info.Status))
	if info.EtherscanURL != "" {
		fmt.Fprintf(r.out, "  %s\n", info.EtherscanURL)
	}
	if info.Status == models.VerificationStatusFailed {
		if info.Reason != "" {
			fmt.Fprintf(r.out, "  %s\n", info.Reason)
		}
		return fmt.Errorf("verification of %s failed", d.GetDisplayName())
	}
	return nil
}

var _ Renderer[*usecase.VerifyResult] = (*VerifyRenderer)(nil)
