package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Keep only the innermost part of an error chain
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// StateLabel turns STATE_MINED into "Mined"
func StateLabel(state models.TransactionState) string {
	name := strings.TrimPrefix(string(state), "STATE_")
	if name == "" {
		return "Unknown"
	}
	return cases.Title(language.English).String(strings.ToLower(name))
}

// StateColor picks a color for a relayer state
func StateColor(state models.TransactionState) *color.Color {
	switch state {
	case models.StateMined, models.StateConfirmed:
		return color.New(color.FgGreen, color.Bold)
	case models.StateFailed, models.StateInvalid:
		return color.New(color.FgRed, color.Bold)
	case models.StateExecuted:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgYellow)
	}
}

// shortHash abbreviates long hex strings for tables
func shortHash(s string) string {
	if len(s) <= 14 {
		return s
	}
	return s[:8] + "…" + s[len(s)-4:]
}
