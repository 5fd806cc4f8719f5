package parse

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Flavor identifies the markdown flavor used for AST parsing.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// goldmarkParser wraps a configured goldmark instance for whole-document AST
// parses. It is separate from the event tokenizer: the AST view serves
// consumers that want goldmark's node model, memoized through the AST cache.
type goldmarkParser struct {
	flavor string
	md     goldmark.Markdown
}

func newGoldmarkParserFlavor(flavor string) *goldmarkParser {
	f := flavorOrDefault(flavor)
	return &goldmarkParser{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// ParseAST parses markdown into a goldmark AST, consulting the AST cache
// first. The cached tree is returned as-is: goldmark nodes are treated as
// read-only once parsed.
func (p *Parser) ParseAST(markdown string) ast.Node {
	if cached, ok := p.caches.GetAST(markdown); ok {
		if node, ok := cached.(ast.Node); ok {
			p.debug("ast cache hit", "bytes", len(markdown))
			return node
		}
	}

	reader := text.NewReader([]byte(markdown))
	doc := p.gm.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	p.caches.SetAST(markdown, doc)
	return doc
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorGFM:
		opts = append(opts,
			goldmark.WithExtensions(
				extension.GFM,
			),
		)
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}
