package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
)

// NetworksRenderer renders the supported networks
type NetworksRenderer struct {
	out   io.Writer
	color bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, color bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:   out,
		color: color,
	}
}

// RenderNetworks renders every network with its contracts, marking the active one
func (r *NetworksRenderer) RenderNetworks(networks config.ContractTable, active uint64) error {
	if len(networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Supported Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "Safe Factory", "MultiSend", "Proxy Factory"})

	for _, id := range networks.ChainIDs() {
		n := networks[id]

		marker := " "
		name := n.Name
		if id == active {
			marker = "*"
			if r.color {
				name = color.New(color.FgGreen, color.Bold).Sprint(name)
			}
		}

		proxy := "-"
		if n.HasProxyContracts() {
			proxy = n.ProxyContracts.ProxyFactory.Hex()
		}

		t.AppendRow(table.Row{
			marker,
			name,
			id,
			n.SafeContracts.SafeFactory.Hex(),
			n.SafeContracts.SafeMultisend.Hex(),
			proxy,
		})
	}

	t.Render()
	return nil
}
