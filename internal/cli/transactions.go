package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-relay/internal/cli/render"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

// NewTxCmd creates the tx command
func NewTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx <id>",
		Short: "Show a relayer transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			txs, err := app.Client.GetTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(txs) == 0 {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			return writeResult(cmd, app, txs, func(out io.Writer, color bool) error {
				r := render.NewTransactionRenderer(out, color)
				for i := range txs {
					if i > 0 {
						fmt.Fprintln(out)
					}
					if err := r.RenderTransaction(&txs[i]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

// NewTxsCmd creates the txs command
func NewTxsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "txs",
		Short: "List transactions submitted with the builder credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			txs, err := app.Client.GetTransactions(cmd.Context())
			if err != nil {
				return err
			}

			return writeResult(cmd, app, txs, func(out io.Writer, color bool) error {
				return render.NewTransactionRenderer(out, color).RenderTransactions(txs)
			})
		},
	}
}

// NewPollCmd creates the poll command
func NewPollCmd() *cobra.Command {
	var (
		states    []string
		failState string
		maxPolls  int
		interval  time.Duration
	)

	cmd := &cobra.Command{
		Use:         "poll [id]",
		Annotations: map[string]string{annotationPolls: "always"},
		Short:       "Poll a transaction until it reaches a state",
		Long: `Poll a relayer transaction until it reaches one of the target states
(default MINED and CONFIRMED). Without an id you pick from your transactions.

States may be given with or without the STATE_ prefix.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.WatchTransactionParams{
				States:      lo.Map(states, func(s string, _ int) models.TransactionState { return parseState(s) }),
				MaxAttempts: maxPolls,
				Interval:    interval,
			}
			if failState != "" {
				params.FailState = parseState(failState)
			}
			if params.MaxAttempts == 0 {
				params.MaxAttempts = app.Config.Poll.MaxAttempts
			}
			if params.Interval == 0 {
				params.Interval = app.Config.Poll.Interval
			}
			if len(args) > 0 {
				params.TransactionID = args[0]
			}

			result, err := app.WatchTransaction.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return writeResult(cmd, app, result, func(out io.Writer, color bool) error {
				return render.NewTransactionRenderer(out, color).RenderWatch(result)
			})
		},
	}

	cmd.Flags().StringSliceVar(&states, "state", nil, "Target state, repeatable (default MINED,CONFIRMED)")
	cmd.Flags().StringVar(&failState, "fail-state", string(models.StateFailed), "State that stops polling early")
	cmd.Flags().IntVar(&maxPolls, "max-polls", 0, "Maximum number of polls (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Delay between polls (default from config)")

	return cmd
}

// parseState accepts "mined" or "STATE_MINED"
func parseState(s string) models.TransactionState {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "STATE_") {
		s = "STATE_" + s
	}
	return models.TransactionState(s)
}
