package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// DeploymentsRenderer renders the address ledger of a network as a table
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders the ledger entries of the active network
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Entries) == 0 {
		fmt.Fprintf(r.out, "No deployments found on %s\n", result.Network.Name)
		return nil
	}

	headerStyle.Fprintf(r.out, "%s (%d)\n", Title(result.Network.Name), len(result.Entries))
	faintStyle.Fprintln(r.out, result.LedgerPath)
	fmt.Fprintln(r.out)

	t := newTable()
	for _, entry := range result.Entries {
		t.AppendRow(table.Row{
			nameStyle.Sprint(entry.ContractName),
			addressStyle.Sprint(entry.Address),
			faintStyle.Sprint(result.Network.ContractURL(entry.Address)),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
