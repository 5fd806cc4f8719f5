package pretty

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/mdtree/pkg/langdetect"
	"github.com/yaklabco/mdtree/pkg/mdtoken"
	"github.com/yaklabco/mdtree/pkg/perfcache"
	"github.com/yaklabco/mdtree/pkg/tokenize"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 100

// minSnippetWidth keeps at least a little of the token text visible even on
// narrow terminals.
const minSnippetWidth = 10

// Renderer renders token trees, event streams, and cache statistics for
// terminal output.
type Renderer struct {
	styles *Styles
	width  int
}

// NewRenderer creates a renderer writing with the given styles. The width is
// taken from the writer's terminal when possible.
func NewRenderer(styles *Styles, writer io.Writer) *Renderer {
	return &Renderer{
		styles: styles,
		width:  detectWidth(writer),
	}
}

// detectWidth returns the terminal width of writer, or defaultWidth.
func detectWidth(writer io.Writer) int {
	if f, ok := writer.(*os.File); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// RenderTree renders a token forest as an indented tree, one token per line:
// type, source span, and a snippet of the token text. Fenced code blocks are
// annotated with their language; reparsed and undefined-reference tokens are
// marked.
func (r *Renderer) RenderTree(roots []*mdtoken.Token) string {
	var b strings.Builder
	for _, root := range roots {
		r.renderToken(&b, root, "", "")
	}
	return b.String()
}

func (r *Renderer) renderToken(b *strings.Builder, tok *mdtoken.Token, prefix, childPrefix string) {
	b.WriteString(r.styles.Branch.Render(prefix))
	b.WriteString(r.formatToken(tok, visibleLen(prefix)))
	b.WriteByte('\n')

	for i, child := range tok.Children {
		if i == len(tok.Children)-1 {
			r.renderToken(b, child, childPrefix+"└─ ", childPrefix+"   ")
		} else {
			r.renderToken(b, child, childPrefix+"├─ ", childPrefix+"│  ")
		}
	}
}

func (r *Renderer) formatToken(tok *mdtoken.Token, indent int) string {
	typeStyle := r.styles.TokenType
	if strings.HasPrefix(tok.Type, mdtoken.TypeUndefinedReference) {
		typeStyle = r.styles.Undefined
	}

	parts := []string{
		typeStyle.Render(tok.Type),
		r.styles.Location.Render(fmt.Sprintf("%d:%d-%d:%d",
			tok.StartLine, tok.StartColumn, tok.EndLine, tok.EndColumn)),
	}

	if tok.Type == tokenize.TypeCodeFenced {
		parts = append(parts, r.styles.Language.Render("["+langdetect.FenceLanguage(tok.Text)+"]"))
	}
	if tok.HTMLReparse {
		parts = append(parts, r.styles.Reparse.Render("(reparsed)"))
	}

	head := strings.Join(parts, " ")

	if snippet := r.snippet(tok.Text, indent+visibleLen(head)+1); snippet != "" {
		head += " " + r.styles.Text.Render(snippet)
	}
	return head
}

// snippet flattens text to one line and truncates it to the space remaining
// on the row.
func (r *Renderer) snippet(text string, used int) string {
	flat := strings.ReplaceAll(text, "\n", "\\n")
	flat = strings.ReplaceAll(flat, "\t", " ")

	remaining := r.width - used
	if remaining < minSnippetWidth {
		remaining = minSnippetWidth
	}
	runes := []rune(flat)
	if len(runes) > remaining {
		if remaining <= 1 {
			return "…"
		}
		return string(runes[:remaining-1]) + "…"
	}
	return flat
}

// visibleLen approximates the printed width by ignoring ANSI escapes; styled
// segments are measured unstyled.
func visibleLen(s string) int {
	width := 0
	inEscape := false
	for _, ch := range s {
		switch {
		case inEscape:
			if ch == 'm' {
				inEscape = false
			}
		case ch == '\x1b':
			inEscape = true
		default:
			width++
		}
	}
	return width
}

// RenderEvents renders the flat event stream, one event per line with
// nesting indentation.
func (r *Renderer) RenderEvents(events []tokenize.Event) string {
	var b strings.Builder
	depth := 0
	for _, ev := range events {
		if ev.Kind == tokenize.Exit {
			depth--
		}
		indent := strings.Repeat("  ", max(depth, 0))

		kind := r.styles.EventEnter.Render("enter")
		if ev.Kind == tokenize.Exit {
			kind = r.styles.EventExit.Render("exit ")
		}

		fmt.Fprintf(&b, "%s%s %s %s\n",
			indent,
			kind,
			r.styles.TokenType.Render(ev.Type),
			r.styles.Location.Render(fmt.Sprintf("%d:%d-%d:%d",
				ev.Start.Line, ev.Start.Column, ev.End.Line, ev.End.Column)),
		)

		if ev.Kind == tokenize.Enter {
			depth++
		}
	}
	return b.String()
}

// RenderStats renders cache occupancy as an aligned listing.
func (r *Renderer) RenderStats(stats perfcache.Stats) string {
	var b strings.Builder

	b.WriteString(r.styles.StatsTitle.Render("Cache statistics") + "\n")

	rows := []struct {
		label string
		value int
	}{
		{"rule results", stats.RuleResultCacheSize},
		{"ast parses", stats.ASTParseCacheSize},
		{"pooled objects", stats.ResultObjectPoolSize},
		{"compiled regexes", stats.RegexCacheSize},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "  %-18s %s\n",
			r.styles.Dim.Render(row.label),
			r.styles.StatsValue.Render(fmt.Sprintf("%d", row.value)),
		)
	}
	return b.String()
}
