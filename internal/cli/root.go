package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-relay/internal/adapters/progress"
	"github.com/trebuchet-org/treb-relay/internal/app"
	"github.com/trebuchet-org/treb-relay/internal/cli/render"
	"github.com/trebuchet-org/treb-relay/internal/config"
	domainconfig "github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// appInitializer builds the app; tests replace it to point at a fake relayer
var appInitializer = app.InitApp

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cancel context.CancelFunc

	rootCmd := &cobra.Command{
		Use:   "treb-relay",
		Short: "Gasless transactions through a relayer-backed Safe wallet",
		Long: `treb-relay derives your Safe wallet, signs Safe transactions and submits
them to a transaction relayer that pays the gas.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			v, err := config.SetupViper(".", cmd)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			var sink usecase.ProgressSink = progress.NewNopSink()
			if useSpinner(cmd) {
				sink = progress.NewSpinnerProgressReporter()
			}

			// Initialize app with DI
			appInstance, err := appInitializer(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			// Polling is bounded by its attempt count, not the command deadline
			if appInstance.Config.Timeout > 0 && !polls(cmd) {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("relayer-url", "", "Relayer base URL (env RELAYER_URL)")
	rootCmd.PersistentFlags().Uint64("chain-id", 0, "Chain ID (env CHAIN_ID, default 137)")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network name or chain ID (e.g. polygon, amoy)")
	rootCmd.PersistentFlags().String("rpc-url", "", "RPC endpoint used for gas estimation (env RPC_URL)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().String("metrics-out", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "account",
		Title: "Account Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "transaction",
		Title: "Transaction Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{NewAddressCmd(), NewNonceCmd(), NewDeployedCmd(), NewDeployCmd()} {
		c.GroupID = "account"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewExecuteCmd(), NewTxCmd(), NewTxsCmd(), NewPollCmd()} {
		c.GroupID = "transaction"
		rootCmd.AddCommand(c)
	}

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	rootCmd.AddCommand(NewVersionCmd())

	finish := func(cmd *cobra.Command) error {
		if cancel != nil {
			cancel()
		}
		return writeMetrics(cmd)
	}
	for _, c := range rootCmd.Commands() {
		withFinalizer(c, finish)
	}

	return rootCmd
}

// withFinalizer runs finish after RunE whether or not it failed. Cobra skips
// post-run hooks on error, which would lose the metrics of failed runs.
func withFinalizer(cmd *cobra.Command, finish func(*cobra.Command) error) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		runErr := run(cmd, args)
		if err := finish(cmd); err != nil && runErr == nil {
			return err
		}
		return runErr
	}
}

// writeMetrics writes the --metrics-out textfile when requested
func writeMetrics(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("metrics-out")
	if path == "" {
		return nil
	}
	app, err := getApp(cmd)
	if err != nil {
		return err
	}
	if err := app.Metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// annotationPolls marks commands that poll the relayer: "always", or "wait"
// when they only poll with --wait
const annotationPolls = "polls"

func polls(cmd *cobra.Command) bool {
	switch cmd.Annotations[annotationPolls] {
	case "always":
		return true
	case "wait":
		wait, _ := cmd.Flags().GetBool("wait")
		return wait
	default:
		return false
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// useSpinner shows progress only for text output on a terminal
func useSpinner(cmd *cobra.Command) bool {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return false
	}
	if out, _ := cmd.Flags().GetString("output"); out != string(domainconfig.OutputText) {
		return false
	}
	return isTerminal(cmd.ErrOrStderr())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// useColor reports whether the command's output goes to a terminal
func useColor(cmd *cobra.Command) bool {
	return isTerminal(cmd.OutOrStdout())
}

// writeResult renders v as JSON or YAML when requested, otherwise through text
func writeResult(cmd *cobra.Command, app *app.App, v any, text func(io.Writer, bool) error) error {
	out := cmd.OutOrStdout()
	if app.Config.Output != domainconfig.OutputText {
		return render.WriteStructured(out, app.Config.Output, v)
	}
	return text(out, useColor(cmd))
}
