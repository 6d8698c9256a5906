package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// AccountsRenderer renders configured signers
type AccountsRenderer struct {
	out io.Writer
}

// NewAccountsRenderer creates a new accounts renderer
func NewAccountsRenderer(out io.Writer) *AccountsRenderer {
	return &AccountsRenderer{out: out}
}

// RenderAccounts lists the accounts of a network, marking the active one
func (r *AccountsRenderer) RenderAccounts(result *usecase.AccountsResult) error {
	if len(result.Accounts) == 0 {
		fmt.Fprintf(r.out, "No accounts configured for %s\n", result.Network)
		return nil
	}

	headerStyle.Fprintf(r.out, "Accounts on %s\n\n", Title(result.Network))
	t := newTable()
	for _, acc := range result.Accounts {
		marker := " "
		if acc.Index == result.Active {
			marker = color.New(color.FgGreen).Sprint("*")
		}
		address := acc.Address
		if address == "" {
			address = color.New(color.FgRed).Sprint("<missing address>")
		}
		t.AppendRow(table.Row{marker, fmt.Sprintf("[%d]", acc.Index), addressStyle.Sprint(address)})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// RenderAccountSelected confirms a persisted account choice
func (r *AccountsRenderer) RenderAccountSelected(result *usecase.UseAccountResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Using account [%d] %s on %s", result.Index, result.Address, result.Network)))
	faintStyle.Fprintf(r.out, "   saved to %s\n", result.ConfigPath)
	return nil
}
