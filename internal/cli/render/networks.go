package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders configured networks with their probed chain id
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in starknet-deploy.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable()
	t.AppendHeader(table.Row{"", "NETWORK", "CHAIN ID", "ACCOUNTS", "RPC"})
	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Current {
			marker = color.New(color.FgGreen).Sprint("*")
		}
		chainID := color.New(color.FgGreen).Sprint(network.ChainID)
		if network.Error != nil {
			chainID = color.New(color.FgRed).Sprintf("error: %v", network.Error)
		}
		t.AppendRow(table.Row{marker, nameStyle.Sprint(network.Name), chainID, network.Accounts, faintStyle.Sprint(network.RPCURL)})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
