package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-relay/internal/cli/render"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	var (
		callsFile string
		to        string
		data      string
		value     string
		operation string
		metadata  string
		wait      bool
		estimate  bool
	)

	cmd := &cobra.Command{
		Use:         "execute",
		Annotations: map[string]string{annotationPolls: "wait"},
		Short:       "Execute calls from the signer's Safe",
		Long: `Sign and submit a batch of calls from the signer's Safe. More than one call
is bundled through MultiSend.

Calls come from a JSON or YAML file (--calls, "-" for stdin) holding a list of
{to, data, value, operation} entries, or from --to/--data/--value for a single call.`,
		Example: `  treb-relay execute --to 0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174 --data 0x095ea7b3...
  treb-relay execute --calls approvals.yaml --metadata "approve" --wait`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var calls []models.Call
			switch {
			case callsFile != "" && to != "":
				return fmt.Errorf("--calls and --to are mutually exclusive")
			case callsFile != "":
				calls, err = loadCallsFile(callsFile, cmd.InOrStdin())
			case to != "":
				var call models.Call
				call, err = models.ParseCall(to, data, value, operation)
				calls = []models.Call{call}
			default:
				return fmt.Errorf("either --calls or --to is required")
			}
			if err != nil {
				return err
			}

			result, err := app.ExecuteTransactions.Run(cmd.Context(), usecase.ExecuteTransactionsParams{
				Calls:    calls,
				Metadata: metadata,
				Wait:     wait,
				Estimate: estimate,
			})
			if err != nil {
				return err
			}

			return writeResult(cmd, app, result, func(out io.Writer, color bool) error {
				return render.NewTransactionRenderer(out, color).RenderExecute(result, wait)
			})
		},
	}

	cmd.Flags().StringVar(&callsFile, "calls", "", "JSON or YAML file with the calls to execute")
	cmd.Flags().StringVar(&to, "to", "", "Target address of a single call")
	cmd.Flags().StringVar(&data, "data", "0x", "Calldata of a single call")
	cmd.Flags().StringVar(&value, "value", "0", "Value in wei of a single call")
	cmd.Flags().StringVar(&operation, "operation", "call", "Operation of a single call (call or delegatecall)")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Free-form metadata attached to the request")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait until the transaction is mined")
	cmd.Flags().BoolVar(&estimate, "estimate", false, "Estimate gas for each call first (requires --rpc-url)")

	return cmd
}
