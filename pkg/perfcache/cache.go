// Package perfcache provides the content-hash keyed result caches that make
// repeated analysis of the same markdown cheap: a rule-result cache, an AST
// cache, an object pool for result maps, and a regex compilation cache.
//
// Caches are explicit, constructible objects with no hidden process-wide state,
// so tests can instantiate isolated instances. They carry no concurrency
// control; a single logical caller at a time is assumed.
package perfcache

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/yaklabco/mdtree/pkg/lrucache"
)

// Default capacities. AST entries are whole parse trees and assumed large, so
// the AST cache is kept much smaller than the rule-result cache.
const (
	DefaultRuleResultCapacity = 256
	DefaultASTCapacity        = 16
	DefaultPoolCapacity       = 32
)

// Options configures cache capacities. Zero values take the defaults.
type Options struct {
	RuleResultCapacity int
	ASTCapacity        int
	PoolCapacity       int
}

// Stats reports the current occupancy of each cache.
type Stats struct {
	RuleResultCacheSize  int `json:"ruleResultCacheSize"`
	ASTParseCacheSize    int `json:"astParseCacheSize"`
	ResultObjectPoolSize int `json:"resultObjectPoolSize"`
	RegexCacheSize       int `json:"regexCacheSize"`
}

// Caches bundles the performance caches behind one lifecycle.
type Caches struct {
	ruleResults *lrucache.Cache[string, any]
	asts        *lrucache.Cache[string, any]

	pool         []map[string]any
	poolCapacity int

	// Compiled patterns live for the lifetime of the Caches instance and are
	// never evicted; the pattern vocabulary of a process is small and fixed.
	regexes map[string]*regexp.Regexp
}

// NewCaches creates an isolated set of performance caches.
func NewCaches(opts Options) *Caches {
	if opts.RuleResultCapacity <= 0 {
		opts.RuleResultCapacity = DefaultRuleResultCapacity
	}
	if opts.ASTCapacity <= 0 {
		opts.ASTCapacity = DefaultASTCapacity
	}
	if opts.PoolCapacity <= 0 {
		opts.PoolCapacity = DefaultPoolCapacity
	}

	return &Caches{
		ruleResults:  lrucache.New[string, any](opts.RuleResultCapacity),
		asts:         lrucache.New[string, any](opts.ASTCapacity),
		pool:         make([]map[string]any, 0, opts.PoolCapacity),
		poolCapacity: opts.PoolCapacity,
		regexes:      make(map[string]*regexp.Regexp),
	}
}

// ruleResultKey builds the rule-result cache key:
// hash(content) ":" ruleName ":" serialized config.
func ruleResultKey(ruleName, content string, config any) string {
	return ContentKey(content) + ":" + ruleName + ":" + serializeConfig(config)
}

// serializeConfig renders a rule config deterministically. encoding/json sorts
// map keys, so equal configs always serialize identically.
func serializeConfig(config any) string {
	if config == nil {
		return "null"
	}
	data, err := json.Marshal(config)
	if err != nil {
		// Unserializable configs still need a stable key.
		return fmt.Sprintf("%#v", config)
	}
	return string(data)
}

// GetRuleResult returns the cached result of running ruleName over content
// with config, or ok=false on a miss.
func (c *Caches) GetRuleResult(ruleName, content string, config any) (any, bool) {
	return c.ruleResults.Get(ruleResultKey(ruleName, content, config))
}

// SetRuleResult stores the result of running ruleName over content with config.
func (c *Caches) SetRuleResult(ruleName, content string, config any, value any) {
	c.ruleResults.Set(ruleResultKey(ruleName, content, config), value)
}

// GetAST returns the cached parse tree for markdown, or ok=false on a miss.
func (c *Caches) GetAST(markdown string) (any, bool) {
	return c.asts.Get(ContentKey(markdown))
}

// SetAST stores the parse tree for markdown.
func (c *Caches) SetAST(markdown string, tree any) {
	c.asts.Set(ContentKey(markdown), tree)
}

// AcquireResult returns an empty result map, recycled from the pool when one
// is available.
func (c *Caches) AcquireResult() map[string]any {
	if n := len(c.pool); n > 0 {
		m := c.pool[n-1]
		c.pool[n-1] = nil
		c.pool = c.pool[:n-1]
		return m
	}
	return make(map[string]any)
}

// ReleaseResult strips all entries from m and returns it to the pool if the
// pool is under capacity, otherwise discards it. Callers must not retain
// references to a released map.
func (c *Caches) ReleaseResult(m map[string]any) {
	if m == nil {
		return
	}
	clear(m)
	if len(c.pool) < c.poolCapacity {
		c.pool = append(c.pool, m)
	}
}

// GetRegex returns the compiled pattern for pattern+flags, compiling it on
// first use and reusing it afterwards. Flags are Go regexp group flags (e.g.
// "i", "ms") applied as a leading (?flags) group.
func (c *Caches) GetRegex(pattern, flags string) (*regexp.Regexp, error) {
	key := pattern + "\x00" + flags

	if re, ok := c.regexes[key]; ok {
		return re, nil
	}

	expr := pattern
	if flags != "" {
		expr = "(?" + flags + ")" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	c.regexes[key] = re
	return re, nil
}

// ClearAll empties every cache and the pool.
func (c *Caches) ClearAll() {
	c.ruleResults.Clear()
	c.asts.Clear()
	c.pool = c.pool[:0]
	c.regexes = make(map[string]*regexp.Regexp)
}

// Stats reports current occupancy of each cache.
func (c *Caches) Stats() Stats {
	return Stats{
		RuleResultCacheSize:  c.ruleResults.Len(),
		ASTParseCacheSize:    c.asts.Len(),
		ResultObjectPoolSize: len(c.pool),
		RegexCacheSize:       len(c.regexes),
	}
}
