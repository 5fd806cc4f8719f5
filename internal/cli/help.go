package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
)

// helpStyles holds the lipgloss styles used for help output.
type helpStyles struct {
	Heading lipgloss.Style
	Command lipgloss.Style
	Sub     lipgloss.Style
	Flag    lipgloss.Style
	Dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{Heading: plain, Command: plain, Sub: plain, Flag: plain, Dim: plain}
	}
	return helpStyles{
		Heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Sub:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help and usage text for cobra commands.
type HelpFormatter struct {
	styles helpStyles
}

// NewHelpFormatter creates a formatter whose color use follows colorMode
// ("auto", "always", "never") and the capabilities of writer.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: newHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

// ApplyToCommand installs the formatter on cmd and, through cobra's
// inheritance, on every subcommand.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		_, err := io.WriteString(c.OutOrStdout(), h.usage(c))
		return err
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		io.WriteString(c.OutOrStdout(), h.help(c)) //nolint:errcheck // best-effort help output
	})
}

func (h *HelpFormatter) help(c *cobra.Command) string {
	var b strings.Builder
	if c.Runnable() || c.HasSubCommands() {
		b.WriteString(h.styles.Command.Render(c.CommandPath()))
		if c.Version != "" {
			b.WriteString(" " + h.styles.Dim.Render(c.Version))
		}
		b.WriteString("\n\n")
	}
	if about := strings.TrimSpace(c.Long); about != "" {
		b.WriteString(about + "\n\n")
	} else if c.Short != "" {
		b.WriteString(c.Short + "\n\n")
	}
	b.WriteString(h.usage(c))
	return b.String()
}

func (h *HelpFormatter) usage(c *cobra.Command) string {
	var b strings.Builder

	b.WriteString(h.styles.Heading.Render("Usage:") + "\n")
	if c.Runnable() {
		b.WriteString("  " + h.styles.Command.Render(c.UseLine()) + "\n")
	}
	if c.HasAvailableSubCommands() {
		b.WriteString("  " + h.styles.Command.Render(c.CommandPath()+" [command]") + "\n")
	}

	if len(c.Aliases) > 0 {
		b.WriteString("\n" + h.styles.Heading.Render("Aliases:") + "\n")
		b.WriteString("  " + h.styles.Dim.Render(strings.Join(c.Aliases, ", ")) + "\n")
	}

	if c.HasExample() {
		b.WriteString("\n" + h.styles.Heading.Render("Examples:") + "\n")
		b.WriteString(h.styles.Dim.Render(c.Example) + "\n")
	}

	if c.HasAvailableSubCommands() {
		b.WriteString("\n" + h.styles.Heading.Render("Available Commands:") + "\n")
		for _, sub := range c.Commands() {
			if !sub.IsAvailableCommand() && sub.Name() != "help" {
				continue
			}
			name := fmt.Sprintf("%-*s", c.NamePadding(), sub.Name())
			b.WriteString("  " + h.styles.Sub.Render(name) + " " + sub.Short + "\n")
		}
	}

	if c.HasAvailableLocalFlags() {
		b.WriteString("\n" + h.styles.Heading.Render("Flags:") + "\n")
		b.WriteString(h.styleFlagBlock(c.LocalFlags().FlagUsages()))
	}
	if c.HasAvailableInheritedFlags() {
		b.WriteString("\n" + h.styles.Heading.Render("Global Flags:") + "\n")
		b.WriteString(h.styleFlagBlock(c.InheritedFlags().FlagUsages()))
	}

	if c.HasAvailableSubCommands() {
		b.WriteString("\nUse \"" +
			h.styles.Command.Render(c.CommandPath()+" [command] --help") +
			"\" for more information about a command.\n")
	}

	return b.String()
}

// styleFlagBlock colors the flag names in a pflag FlagUsages block while
// leaving descriptions alone. Each line looks like
// "  -f, --flag type   description": the flag half ends at the first run
// of two or more spaces.
func (h *HelpFormatter) styleFlagBlock(usages string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(usages, "\n"), "\n") {
		flagPart, desc, found := cutFlagLine(line)
		if !found {
			b.WriteString(line + "\n")
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
		b.WriteString(indent + h.styleFlagNames(strings.TrimSpace(flagPart)) + "   " + desc + "\n")
	}
	return b.String()
}

// cutFlagLine splits a usage line at the first gap of two or more spaces
// after non-space content.
func cutFlagLine(line string) (flags, desc string, found bool) {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return "", "", false
	}
	offset := len(line) - len(trimmed)
	gap := 0
	for i, r := range trimmed {
		if r == ' ' {
			gap++
			continue
		}
		if gap >= 2 {
			return line[:offset+i-gap], trimmed[i:], true
		}
		gap = 0
	}
	return "", "", false
}

// styleFlagNames colors dash-prefixed tokens and dims type hints.
func (h *HelpFormatter) styleFlagNames(flagPart string) string {
	tokens := strings.Fields(flagPart)
	for i, tok := range tokens {
		name, comma := strings.CutSuffix(tok, ",")
		if strings.HasPrefix(name, "-") {
			tokens[i] = h.styles.Flag.Render(name)
		} else {
			tokens[i] = h.styles.Dim.Render(name)
		}
		if comma {
			tokens[i] += ","
		}
	}
	return strings.Join(tokens, " ")
}
