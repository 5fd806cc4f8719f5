// Package parse is the high-level entry point: it turns markdown into token
// trees, surfaces the raw event stream with undefined-reference detection
// applied, and fronts the memoization layers.
package parse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdtree/pkg/lrucache"
	"github.com/yaklabco/mdtree/pkg/mdtoken"
	"github.com/yaklabco/mdtree/pkg/perfcache"
	"github.com/yaklabco/mdtree/pkg/refshim"
	"github.com/yaklabco/mdtree/pkg/tokenize"
)

const defaultParseCacheCapacity = 100

// Options configures a Parser. The zero value is usable: no parse cache,
// default performance caches, default tokenization.
type Options struct {
	// EnableParseCache turns on whole-result memoization keyed by content and
	// parse options.
	EnableParseCache bool

	// ParseCacheCapacity bounds the parse cache; 0 means the default of 100.
	ParseCacheCapacity int

	// Caches supplies the performance cache pack; a fresh default pack is
	// created when nil.
	Caches *perfcache.Caches

	// Tokenize carries construct disables and an extra label-miss continuation
	// applied to every tokenization.
	Tokenize tokenize.Options

	// Flavor selects the markdown dialect for ParseAST; empty means
	// FlavorCommonMark. The event tokenizer is flavor-independent.
	Flavor string

	// Logger receives debug traces of cache activity. Nil disables them.
	Logger *log.Logger
}

// ParseOptions vary per call and participate in the parse cache key.
type ParseOptions struct {
	// FreezeTokens makes every produced token immutable bottom-up as its exit
	// event is processed.
	FreezeTokens bool
}

// Parser is safe for sequential use; callers running it from multiple
// goroutines must serialize access themselves.
type Parser struct {
	opts       Options
	caches     *perfcache.Caches
	parseCache *lrucache.Cache[string, Result]
	gm         *goldmarkParser
	logger     *log.Logger
}

// NewParser builds a parser from opts.
func NewParser(opts Options) *Parser {
	caches := opts.Caches
	if caches == nil {
		caches = perfcache.NewCaches(perfcache.Options{})
	}

	p := &Parser{
		opts:   opts,
		caches: caches,
		gm:     newGoldmarkParserFlavor(opts.Flavor),
		logger: opts.Logger,
	}

	if opts.EnableParseCache {
		capacity := opts.ParseCacheCapacity
		if capacity <= 0 {
			capacity = defaultParseCacheCapacity
		}
		p.parseCache = lrucache.New[string, Result](capacity)
	}

	return p
}

// Parse tokenizes markdown into a tree. With the parse cache enabled, repeat
// calls for identical content and options return an independent deep clone of
// the memoized result, so callers can never mutate shared cached state.
func (p *Parser) Parse(markdown string, opts ParseOptions) Result {
	if p.parseCache != nil {
		key := p.parseKey(markdown, opts)
		if cached, ok := p.parseCache.Get(key); ok {
			p.debug("parse cache hit", "bytes", len(markdown))
			roots, flat := mdtoken.CloneForest(cached.Roots, cached.Flat)
			return Result{Roots: roots, Flat: flat}
		}
		result := p.parse(markdown, opts)
		p.parseCache.Set(key, result)
		p.debug("parse cache store", "bytes", len(markdown), "tokens", len(result.Flat))
		return result
	}
	return p.parse(markdown, opts)
}

func (p *Parser) parse(markdown string, opts ParseOptions) Result {
	events := p.GetEvents(markdown)
	builder := &treeBuilder{base: p.opts.Tokenize, freeze: opts.FreezeTokens}
	return builder.build(events, markdown, 0, nil)
}

// GetEvents returns the flat event stream for markdown with the
// undefined-reference detector applied: all real events in emission order,
// followed by the synthesized undefinedReference events. The detector wraps
// any continuation configured in Options.Tokenize and always lets it run.
func (p *Parser) GetEvents(markdown string) []tokenize.Event {
	shim := refshim.New(p.opts.Tokenize.OnLabelMiss)
	opts := p.opts.Tokenize
	opts.OnLabelMiss = shim.OnLabelMiss
	events := tokenize.Events(markdown, opts)
	return append(events, shim.Synthetic()...)
}

// ClearParseCache empties the parse cache, if one is enabled.
func (p *Parser) ClearParseCache() {
	if p.parseCache != nil {
		p.parseCache.Clear()
	}
}

// parseKey derives the cache key from the content plus everything that can
// change the parse outcome.
func (p *Parser) parseKey(markdown string, opts ParseOptions) string {
	disabled := append([]string(nil), p.opts.Tokenize.Disable...)
	sort.Strings(disabled)

	var b strings.Builder
	b.WriteString(perfcache.ContentKey(markdown))
	b.WriteString(":freeze=")
	b.WriteString(strconv.FormatBool(opts.FreezeTokens))
	b.WriteString(":disable=")
	b.WriteString(strings.Join(disabled, ","))
	return b.String()
}

// GetCachedRuleResult looks up a memoized per-rule computation.
func (p *Parser) GetCachedRuleResult(ruleName, content string, config any) (any, bool) {
	return p.caches.GetRuleResult(ruleName, content, config)
}

// SetCachedRuleResult memoizes a per-rule computation.
func (p *Parser) SetCachedRuleResult(ruleName, content string, config any, result any) {
	p.caches.SetRuleResult(ruleName, content, config, result)
}

// GetCachedAST looks up a memoized syntax tree for markdown.
func (p *Parser) GetCachedAST(markdown string) (any, bool) {
	return p.caches.GetAST(markdown)
}

// SetCachedAST memoizes a syntax tree for markdown.
func (p *Parser) SetCachedAST(markdown string, tree any) {
	p.caches.SetAST(markdown, tree)
}

// AcquirePooledResult hands out a cleared scratch map from the object pool.
func (p *Parser) AcquirePooledResult() map[string]any {
	return p.caches.AcquireResult()
}

// ReleasePooledResult returns a scratch map to the pool.
func (p *Parser) ReleasePooledResult(m map[string]any) {
	p.caches.ReleaseResult(m)
}

// GetCachedRegex compiles pattern with the given flags, memoizing forever.
func (p *Parser) GetCachedRegex(pattern, flags string) (*regexp.Regexp, error) {
	return p.caches.GetRegex(pattern, flags)
}

// ClearPerformanceCaches empties the rule-result cache, AST cache, object
// pool, and regex cache. The parse cache is controlled separately by
// ClearParseCache.
func (p *Parser) ClearPerformanceCaches() {
	p.caches.ClearAll()
}

// CacheStats snapshots the performance cache occupancy.
func (p *Parser) CacheStats() perfcache.Stats {
	return p.caches.Stats()
}

func (p *Parser) debug(msg string, kv ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, kv...)
	}
}
