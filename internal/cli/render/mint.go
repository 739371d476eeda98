package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// MintRenderer prints transaction lifecycle events as they arrive: the hash,
// each "confirmationNumber: N", the receipt and any error.
type MintRenderer struct {
	out      io.Writer
	reported error
}

// NewMintRenderer creates a new mint renderer
func NewMintRenderer(out io.Writer) *MintRenderer {
	return &MintRenderer{out: out}
}

// OnEvent writes a single lifecycle event
func (r *MintRenderer) OnEvent(event domain.TxEvent) {
	switch event.Kind {
	case domain.EventTransactionHash:
		fmt.Fprintln(r.out, event.Hash.Hex())
	case domain.EventConfirmation:
		fmt.Fprintf(r.out, "confirmationNumber: %d\n", event.Confirmations)
	case domain.EventReceipt:
		data, err := json.MarshalIndent(event.Receipt, "", "  ")
		if err != nil {
			fmt.Fprintf(r.out, "receipt: %s (block %s)\n", event.Receipt.TxHash.Hex(), event.Receipt.BlockNumber)
			return
		}
		fmt.Fprintln(r.out, string(data))
	case domain.EventError:
		r.reported = event.Err
		fmt.Fprintln(r.out, FormatError(event.Err.Error()))
	}
}

// Reported returns the error already printed from an error event, if any
func (r *MintRenderer) Reported() error {
	return r.reported
}

// Render writes the final summary
func (r *MintRenderer) Render(result *usecase.MintTokensResult) error {
	_, err := fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s.%s finalized after %d confirmation(s)",
		result.Request.Contract, result.Request.Method, result.Record.Confirmations)))
	return err
}

var _ Renderer[*usecase.MintTokensResult] = (*MintRenderer)(nil)
