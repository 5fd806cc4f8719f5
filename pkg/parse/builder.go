package parse

import (
	"strings"

	"github.com/yaklabco/mdtree/pkg/mdtoken"
	"github.com/yaklabco/mdtree/pkg/refshim"
	"github.com/yaklabco/mdtree/pkg/tokenize"
)

// Result is one parsed (sub)tree: the top-level tokens plus the flat list of
// every token in emission order, independent of tree shape.
type Result struct {
	Roots []*mdtoken.Token
	Flat  []*mdtoken.Token
}

// treeBuilder turns an event stream into nested tokens. It recurses into
// itself for embedded raw-HTML regions.
type treeBuilder struct {
	// base tokenize options carried into recursive reparses.
	base   tokenize.Options
	freeze bool
}

// build consumes the event list in order, maintaining a stack of currently
// open tokens. lineOffset is added to every captured line number so that
// recursively reparsed fragments report positions in the outer document's
// coordinate space. ancestor, when non-nil, becomes the parent of top-level
// tokens so reparsed fragments attach to their true position in the outer
// tree.
func (b *treeBuilder) build(events []tokenize.Event, source string, lineOffset int, ancestor *mdtoken.Token) Result {
	var result Result
	var stack []*mdtoken.Token

	for i := 0; i < len(events); i++ {
		ev := events[i]

		if ev.Kind == tokenize.Exit {
			top := stack[len(stack)-1]
			if b.freeze {
				// Bottom-up: children were frozen at their own exits, so no
				// later sibling processing can observe a mutable parent.
				mdtoken.Freeze(top)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		tok := newToken(ev, source, lineOffset)

		if len(stack) == 0 {
			tok.Parent = ancestor
			result.Roots = append(result.Roots, tok)
		} else {
			mdtoken.AppendChild(stack[len(stack)-1], tok)
		}
		result.Flat = append(result.Flat, tok)

		// Raw HTML that is not merely a comment gets reparsed as markdown
		// with the conflicting constructs disabled.
		if tok.Type == tokenize.TypeHTMLFlow && !isHTMLComment(tok.Text) {
			i = skipToMatchingExit(events, i)
			sub := b.reparse(tok)
			mdtoken.SetChildren(tok, sub.Roots)
			result.Flat = append(result.Flat, sub.Flat...)
			if b.freeze {
				mdtoken.Freeze(tok)
			}
			continue
		}

		stack = append(stack, tok)
	}

	return result
}

// reparse tokenizes the exact source lines spanned by an htmlFlow token as
// markdown, with indented code and further raw-HTML blocks disabled, and
// builds the fragment attached to tok with line numbers shifted into the
// outer coordinate space. Every token of the fragment carries the HTMLReparse
// marker.
func (b *treeBuilder) reparse(tok *mdtoken.Token) Result {
	opts := b.base
	opts.Disable = append(append([]string(nil), opts.Disable...),
		tokenize.ConstructCodeIndented, tokenize.ConstructHTMLFlow)

	shim := refshim.New(b.base.OnLabelMiss)
	opts.OnLabelMiss = shim.OnLabelMiss

	events := append(tokenize.Events(tok.Text, opts), shim.Synthetic()...)

	inner := &treeBuilder{base: opts, freeze: b.freeze}
	sub := inner.build(events, tok.Text, tok.StartLine-1, tok)

	//nolint:errcheck // the visitor never returns an error
	mdtoken.WalkForest(sub.Roots, func(t *mdtoken.Token) error {
		t.HTMLReparse = true
		return nil
	})

	return sub
}

// newToken constructs a token from an enter event, capturing its text as a
// direct substring of source. The snapshot is stable: it is never recomputed
// after construction.
func newToken(ev tokenize.Event, source string, lineOffset int) *mdtoken.Token {
	return &mdtoken.Token{
		Type:        ev.Type,
		StartLine:   ev.Start.Line + lineOffset,
		StartColumn: ev.Start.Column,
		EndLine:     ev.End.Line + lineOffset,
		EndColumn:   ev.End.Column,
		StartOffset: ev.StartOffset,
		EndOffset:   ev.EndOffset,
		Text:        source[ev.StartOffset:ev.EndOffset],
	}
}

// skipToMatchingExit returns the index of the exit event closing the enter at
// start, suspending normal child emission for everything in between.
func skipToMatchingExit(events []tokenize.Event, start int) int {
	typ := events[start].Type
	depth := 0
	for i := start; i < len(events); i++ {
		if events[i].Type != typ {
			continue
		}
		if events[i].Kind == tokenize.Enter {
			depth++
		} else {
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(events) - 1
}

// isHTMLComment reports whether an htmlFlow region is purely an HTML comment.
func isHTMLComment(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "<!--") && strings.HasSuffix(trimmed, "-->")
}
