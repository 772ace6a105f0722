package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-relay/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List supported networks and their contracts",
		Long: `List the built-in networks and any added in relay.toml, with the Safe
factory, MultiSend and proxy factory addresses used on each.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			networks := app.Config.Networks
			return writeResult(cmd, app, networks, func(out io.Writer, color bool) error {
				return render.NewNetworksRenderer(out, color).RenderNetworks(networks, app.Config.ChainID)
			})
		},
	}

	return cmd
}
