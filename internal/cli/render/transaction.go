package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

// TransactionRenderer renders relayer transactions and submission outcomes
type TransactionRenderer struct {
	out   io.Writer
	color bool
}

// NewTransactionRenderer creates a new transaction renderer
func NewTransactionRenderer(out io.Writer, color bool) *TransactionRenderer {
	return &TransactionRenderer{
		out:   out,
		color: color,
	}
}

func (r *TransactionRenderer) state(s models.TransactionState) string {
	label := StateLabel(s)
	if !r.color {
		return label
	}
	return StateColor(s).Sprint(label)
}

// RenderTransactions renders relayer records as a table
func (r *TransactionRenderer) RenderTransactions(txs []models.RelayerTransaction) error {
	if len(txs) == 0 {
		fmt.Fprintln(r.out, "No transactions found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"ID", "Type", "State", "Nonce", "To", "Hash", "Created"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignRight},
	})

	for _, tx := range txs {
		created := "-"
		if !tx.CreatedAt.IsZero() {
			created = tx.CreatedAt.Local().Format("2006-01-02 15:04:05")
		}
		t.AppendRow(table.Row{
			tx.TransactionID,
			string(tx.Type),
			r.state(tx.State),
			tx.Nonce,
			shortHash(tx.To),
			shortHash(tx.TransactionHash),
			created,
		})
	}

	t.Render()
	return nil
}

// RenderTransaction renders a single relayer record in detail
func (r *TransactionRenderer) RenderTransaction(tx *models.RelayerTransaction) error {
	rows := [][2]string{
		{"Transaction ID", tx.TransactionID},
		{"State", r.state(tx.State)},
		{"Type", string(tx.Type)},
		{"From", tx.From},
		{"To", tx.To},
		{"Proxy", tx.ProxyAddress},
		{"Nonce", tx.Nonce},
		{"Value", tx.Value},
		{"Hash", tx.TransactionHash},
		{"Metadata", tx.Metadata},
	}
	if !tx.CreatedAt.IsZero() {
		rows = append(rows, [2]string{"Created", tx.CreatedAt.Local().Format("2006-01-02 15:04:05")})
	}
	if !tx.UpdatedAt.IsZero() {
		rows = append(rows, [2]string{"Updated", tx.UpdatedAt.Local().Format("2006-01-02 15:04:05")})
	}

	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(r.out, "%-16s %s\n", row[0]+":", row[1])
	}

	if len(tx.Data) > 2 {
		fmt.Fprintf(r.out, "%-16s %s\n", "Data:", truncateData(tx.Data))
	}
	return nil
}

// RenderPending renders the handle returned by a submission and the settled record, if any
func (r *TransactionRenderer) RenderPending(pending *usecase.PendingTransaction, final *models.RelayerTransaction, waited bool) error {
	if pending == nil {
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Submitted transaction %s", pending.TransactionID)))
	fmt.Fprintf(r.out, "%-16s %s\n", "State:", r.state(pending.State))
	if pending.TransactionHash != "" {
		fmt.Fprintf(r.out, "%-16s %s\n", "Hash:", pending.TransactionHash)
	}

	if !waited {
		return nil
	}

	fmt.Fprintln(r.out)
	if final == nil {
		fmt.Fprintln(r.out, FormatWarning("Transaction did not reach a mined or confirmed state"))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Transaction %s", strings.ToLower(StateLabel(final.State)))))
	return r.RenderTransaction(final)
}

// RenderExecute renders the outcome of an execute command
func (r *TransactionRenderer) RenderExecute(result *usecase.ExecuteTransactionsResult, waited bool) error {
	if len(result.Estimates) > 0 {
		fmt.Fprintln(r.out, "Gas estimates:")
		var total uint64
		for i, gas := range result.Estimates {
			fmt.Fprintf(r.out, "  call %d: %d\n", i, gas)
			total += gas
		}
		fmt.Fprintf(r.out, "  total:  %d\n\n", total)
	}

	if result.Aborted {
		fmt.Fprintln(r.out, FormatWarning("Submission cancelled"))
		return nil
	}
	return r.RenderPending(result.Pending, result.Final, waited)
}

// RenderDeploy renders the outcome of a deploy command
func (r *TransactionRenderer) RenderDeploy(result *usecase.DeployAccountResult, waited bool) error {
	if result.Aborted {
		fmt.Fprintln(r.out, FormatWarning("Deployment cancelled"))
		return nil
	}

	safe := result.Safe.Hex()
	if r.color {
		safe = color.New(color.FgCyan).Sprint(safe)
	}
	fmt.Fprintf(r.out, "%-16s %s\n", "Safe:", safe)
	return r.RenderPending(result.Pending, result.Final, waited)
}

// RenderWatch renders the outcome of polling
func (r *TransactionRenderer) RenderWatch(result *usecase.WatchTransactionResult) error {
	if result.Transaction == nil {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Transaction %s did not reach a target state", result.TransactionID)))
		return nil
	}
	return r.RenderTransaction(result.Transaction)
}

func truncateData(data string) string {
	if len(data) <= 74 {
		return data
	}
	return fmt.Sprintf("%s… (%d bytes)", data[:74], (len(data)-2)/2)
}
