package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

// AccountRenderer renders derived wallet information
type AccountRenderer struct {
	out   io.Writer
	color bool
}

// NewAccountRenderer creates a new account renderer
func NewAccountRenderer(out io.Writer, color bool) *AccountRenderer {
	return &AccountRenderer{
		out:   out,
		color: color,
	}
}

// Render implements Renderer
func (r *AccountRenderer) Render(info *usecase.AccountInfo) error {
	label := func(s string) string {
		if r.color {
			return color.New(color.FgWhite, color.Bold).Sprintf("%-10s", s)
		}
		return fmt.Sprintf("%-10s", s)
	}

	fmt.Fprintf(r.out, "%s %s\n", label("Owner:"), info.Owner.Hex())
	fmt.Fprintf(r.out, "%s %s\n", label("Safe:"), info.Safe.Hex())
	if info.Proxy != nil {
		fmt.Fprintf(r.out, "%s %s\n", label("Proxy:"), info.Proxy.Hex())
	}
	fmt.Fprintf(r.out, "%s %d\n", label("Chain ID:"), info.ChainID)

	if info.Deployed != nil {
		status := "not deployed"
		c := color.New(color.FgYellow)
		if *info.Deployed {
			status = "deployed"
			c = color.New(color.FgGreen)
		}
		if r.color {
			status = c.Sprint(status)
		}
		fmt.Fprintf(r.out, "%s %s\n", label("Status:"), status)
	}

	if info.Nonce != "" {
		fmt.Fprintf(r.out, "%s %s\n", label("Nonce:"), info.Nonce)
	}
	return nil
}

var _ Renderer[*usecase.AccountInfo] = (*AccountRenderer)(nil)
