package perfcache_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/perfcache"
)

func TestRuleResultCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c := perfcache.NewCaches(perfcache.Options{})

	_, ok := c.GetRuleResult("no-trailing-spaces", "# Title\n", nil)
	assert.False(t, ok, "expected miss before set")

	c.SetRuleResult("no-trailing-spaces", "# Title\n", nil, []int{3, 7})

	v, ok := c.GetRuleResult("no-trailing-spaces", "# Title\n", nil)
	require.True(t, ok)
	assert.Equal(t, []int{3, 7}, v)
}

func TestRuleResultKeyedByConfig(t *testing.T) {
	t.Parallel()

	c := perfcache.NewCaches(perfcache.Options{})
	content := "some content\n"

	c.SetRuleResult("line-length", content, map[string]any{"limit": 80}, "a")
	c.SetRuleResult("line-length", content, map[string]any{"limit": 120}, "b")

	v, ok := c.GetRuleResult("line-length", content, map[string]any{"limit": 80})
	require.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = c.GetRuleResult("line-length", content, map[string]any{"limit": 120})
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestASTCache(t *testing.T) {
	t.Parallel()

	c := perfcache.NewCaches(perfcache.Options{ASTCapacity: 2})

	_, ok := c.GetAST("# Doc\n")
	assert.False(t, ok)

	tree := struct{ Name string }{"root"}
	c.SetAST("# Doc\n", tree)

	v, ok := c.GetAST("# Doc\n")
	require.True(t, ok)
	assert.Equal(t, tree, v)

	// Capacity-driven eviction of the oldest document.
	c.SetAST("second\n", 2)
	c.SetAST("third\n", 3)

	_, ok = c.GetAST("# Doc\n")
	assert.False(t, ok, "oldest AST entry should be evicted")
}

func TestResultPool(t *testing.T) {
	t.Parallel()

	c := perfcache.NewCaches(perfcache.Options{PoolCapacity: 2})

	m := c.AcquireResult()
	m["lines"] = 12
	c.ReleaseResult(m)

	recycled := c.AcquireResult()
	assert.Empty(t, recycled, "released map must come back stripped of entries")

	// Over-capacity releases are discarded, not pooled.
	c.ReleaseResult(map[string]any{})
	c.ReleaseResult(map[string]any{})
	c.ReleaseResult(map[string]any{})
	assert.Equal(t, 2, c.Stats().ResultObjectPoolSize)
}

func TestGetRegexCompilesOnce(t *testing.T) {
	t.Parallel()

	c := perfcache.NewCaches(perfcache.Options{})

	re1, err := c.GetRegex(`^#{1,6}\s`, "")
	require.NoError(t, err)
	re2, err := c.GetRegex(`^#{1,6}\s`, "")
	require.NoError(t, err)
	assert.Same(t, re1, re2, "same pattern must reuse the compiled value")

	// Flags participate in the key.
	re3, err := c.GetRegex(`^#{1,6}\s`, "m")
	require.NoError(t, err)
	assert.NotSame(t, re1, re3)
	assert.True(t, re3.MatchString("x\n## y"))

	_, err = c.GetRegex(`(`, "")
	assert.Error(t, err)
}

func TestClearAllAndStats(t *testing.T) {
	t.Parallel()

	c := perfcache.NewCaches(perfcache.Options{})

	c.ClearAll()
	assert.Equal(t, perfcache.Stats{}, c.Stats(), "all sizes zero after clear")

	c.SetRuleResult("rule", "content", nil, 1)
	c.SetAST("content", 2)
	c.ReleaseResult(c.AcquireResult())
	_, err := c.GetRegex(`\d+`, "")
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, 1, stats.RuleResultCacheSize)
	assert.Equal(t, 1, stats.ASTParseCacheSize)
	assert.Equal(t, 1, stats.ResultObjectPoolSize)
	assert.Equal(t, 1, stats.RegexCacheSize)

	c.ClearAll()
	assert.Equal(t, perfcache.Stats{}, c.Stats())
}

func TestContentKeyIncludesLength(t *testing.T) {
	t.Parallel()

	k1 := perfcache.ContentKey("abc")
	k2 := perfcache.ContentKey("abcd")
	assert.NotEqual(t, k1, k2)
	assert.True(t, strings.HasSuffix(k1, ":3"))
	assert.True(t, strings.HasSuffix(k2, ":4"))
}

func TestHashDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, perfcache.Hash("markdown"), perfcache.Hash("markdown"))
	assert.NotEqual(t, perfcache.Hash("markdown"), perfcache.Hash("markdowm"))
	assert.Equal(t, uint32(0), perfcache.Hash(""))
}

func BenchmarkContentKey(b *testing.B) {
	content := strings.Repeat("# Heading\n\nSome paragraph text.\n", 64)
	b.ResetTimer()
	for range b.N {
		perfcache.ContentKey(content)
	}
}
