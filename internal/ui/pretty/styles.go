// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Token components
	TokenType lipgloss.Style
	Location  lipgloss.Style
	Text      lipgloss.Style
	Branch    lipgloss.Style
	Reparse   lipgloss.Style
	Undefined lipgloss.Style
	Language  lipgloss.Style

	// Event components
	EventEnter lipgloss.Style
	EventExit  lipgloss.Style

	// Stats styles
	StatsTitle lipgloss.Style
	StatsValue lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		TokenType: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Location:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Branch:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Reparse:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Undefined: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Language:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Italic(true),

		EventEnter: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		EventExit:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),

		StatsTitle: lipgloss.NewStyle().Bold(true),
		StatsValue: lipgloss.NewStyle(),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		TokenType:  plain,
		Location:   plain,
		Text:       plain,
		Branch:     plain,
		Reparse:    plain,
		Undefined:  plain,
		Language:   plain,
		EventEnter: plain,
		EventExit:  plain,
		StatsTitle: plain,
		StatsValue: plain,
		Dim:        plain,
		Bold:       plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		// Check if output is a TTY
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
