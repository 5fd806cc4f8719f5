package pretty_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/parse"
	"github.com/yaklabco/mdtree/pkg/perfcache"
)

func newTestRenderer() *pretty.Renderer {
	var buf bytes.Buffer
	return pretty.NewRenderer(pretty.NewStyles(false), &buf)
}

func TestRenderTree(t *testing.T) {
	t.Parallel()

	p := parse.NewParser(parse.Options{})
	result := p.Parse("# Title\n\nHello world\n", parse.ParseOptions{})

	out := newTestRenderer().RenderTree(result.Roots)

	assert.Contains(t, out, "atxHeading")
	assert.Contains(t, out, "paragraph")
	assert.Contains(t, out, "1:1-1:8")
	assert.Contains(t, out, "# Title")
	// Children are drawn with branch glyphs.
	assert.Contains(t, out, "└─")
}

func TestRenderTreeAnnotatesCodeFences(t *testing.T) {
	t.Parallel()

	p := parse.NewParser(parse.Options{})
	result := p.Parse("```rust\nfn main() {}\n```\n", parse.ParseOptions{})

	out := newTestRenderer().RenderTree(result.Roots)

	assert.Contains(t, out, "codeFenced")
	assert.Contains(t, out, "[rust]")
}

func TestRenderTreeMarksReparsedTokens(t *testing.T) {
	t.Parallel()

	p := parse.NewParser(parse.Options{})
	result := p.Parse("<div>\n# Inside\n</div>\n", parse.ParseOptions{})

	out := newTestRenderer().RenderTree(result.Roots)

	assert.Contains(t, out, "(reparsed)")
}

func TestRenderTreeFlattensMultilineText(t *testing.T) {
	t.Parallel()

	p := parse.NewParser(parse.Options{})
	result := p.Parse("line one\nline two\n", parse.ParseOptions{})

	out := newTestRenderer().RenderTree(result.Roots)

	require.NotEmpty(t, out)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.NotContains(t, line, "\t")
	}
	assert.Contains(t, out, `line one\nline two`)
}

func TestRenderEvents(t *testing.T) {
	t.Parallel()

	p := parse.NewParser(parse.Options{})
	events := p.GetEvents("# H\n")

	out := newTestRenderer().RenderEvents(events)

	assert.Contains(t, out, "enter atxHeading")
	assert.Contains(t, out, "exit  atxHeading")
	// Nested events are indented under their parent.
	assert.Contains(t, out, "  enter atxHeadingSequence")
}

func TestRenderStats(t *testing.T) {
	t.Parallel()

	out := newTestRenderer().RenderStats(perfcache.Stats{
		RuleResultCacheSize:  3,
		ASTParseCacheSize:    1,
		ResultObjectPoolSize: 2,
		RegexCacheSize:       4,
	})

	assert.Contains(t, out, "Cache statistics")
	assert.Contains(t, out, "rule results")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "compiled regexes")
}
