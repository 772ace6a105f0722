package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-relay/internal/cli/render"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

// NewAddressCmd creates the address command
func NewAddressCmd() *cobra.Command {
	var withProxy bool

	cmd := &cobra.Command{
		Use:   "address [owner]",
		Short: "Show the Safe wallet address of an owner",
		Long: `Derive the Safe wallet address of an owner. Without an argument the
configured signer is used. No network access is needed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, usecase.InspectAccountParams{WithProxy: withProxy})
		},
	}

	cmd.Flags().BoolVar(&withProxy, "proxy", false, "Also derive the legacy proxy wallet address")

	return cmd
}

// NewNonceCmd creates the nonce command
func NewNonceCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "nonce [owner]",
		Short: "Show the relayer nonce of an owner",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, usecase.InspectAccountParams{
				WithNonce: true,
				NonceType: models.TransactionType(strings.ToUpper(txType)),
			})
		},
	}

	cmd.Flags().StringVar(&txType, "type", string(models.TransactionTypeSafe), "Nonce type (SAFE or PROXY)")

	return cmd
}

// NewDeployedCmd creates the deployed command
func NewDeployedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deployed [owner]",
		Short: "Check whether an owner's Safe is deployed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, usecase.InspectAccountParams{WithDeployed: true})
		},
	}
}

func runInspect(cmd *cobra.Command, args []string, params usecase.InspectAccountParams) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		params.Owner = args[0]
	}

	info, err := app.InspectAccount.Run(cmd.Context(), params)
	if err != nil {
		return err
	}

	return writeResult(cmd, app, info, func(out io.Writer, color bool) error {
		return render.NewAccountRenderer(out, color).Render(info)
	})
}

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:         "deploy",
		Annotations: map[string]string{annotationPolls: "wait"},
		Short:       "Deploy the signer's Safe wallet through the relayer",
		Long: `Deploy the Safe wallet of the configured signer. The relayer pays for
the deployment. Fails if the Safe is already deployed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployAccount.Run(cmd.Context(), usecase.DeployAccountParams{Wait: wait})
			if err != nil {
				return err
			}

			return writeResult(cmd, app, result, func(out io.Writer, color bool) error {
				return render.NewTransactionRenderer(out, color).RenderDeploy(result, wait)
			})
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Wait until the deployment is mined")

	return cmd
}
