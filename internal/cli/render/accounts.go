package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// AccountsRenderer renders the signer accounts of a network
type AccountsRenderer struct {
	out io.Writer
}

// NewAccountsRenderer creates a new accounts renderer
func NewAccountsRenderer(out io.Writer) *AccountsRenderer {
	return &AccountsRenderer{out: out}
}

// Render writes one row per account
func (r *AccountsRenderer) Render(result *usecase.ListAccountsResult) error {
	if len(result.Accounts) == 0 {
		fmt.Fprintf(r.out, "No accounts configured for %s\n", result.Network)
		return nil
	}

	withBalance := lo.SomeBy(result.Accounts, func(a models.Account) bool { return a.Balance != nil })

	header := table.Row{"#", "Address", "Source"}
	if withBalance {
		header = append(header, "Balance")
	}
	t := newTable(header)

	for _, account := range result.Accounts {
		source := string(account.Source)
		if account.Path != "" {
			source = account.Path
		}
		row := table.Row{account.Index, addressStyle.Sprint(account.Address.Hex()), timestampStyle.Sprint(source)}
		if withBalance {
			row = append(row, FormatEther(account.Balance))
		}
		t.AppendRow(row)
	}

	fmt.Fprintln(r.out, headerStyle.Sprintf("Accounts on %s", result.Network))
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.ListAccountsResult] = (*AccountsRenderer)(nil)
