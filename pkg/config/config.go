// Package config defines core configuration types for mdtree.
// These types are pure data structures with no dependency on the parser or CLI.
package config

// OutputFormat specifies the output format for CLI rendering.
type OutputFormat string

const (
	FormatTree   OutputFormat = "tree"
	FormatJSON   OutputFormat = "json"
	FormatEvents OutputFormat = "events"
)

// IsValid returns true if the output format is recognized.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatTree, FormatJSON, FormatEvents:
		return true
	default:
		return false
	}
}

// Flavor specifies the Markdown flavor used for AST parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// CacheConfig controls the memoization layers.
type CacheConfig struct {
	// ParseCache enables whole-result memoization of parses.
	ParseCache bool `yaml:"parse_cache"`

	// ParseCacheCapacity bounds the parse cache; 0 takes the default.
	ParseCacheCapacity int `yaml:"parse_cache_capacity"`

	// RuleResultCapacity bounds the rule-result cache; 0 takes the default.
	RuleResultCapacity int `yaml:"rule_result_capacity"`

	// ASTCapacity bounds the AST cache; 0 takes the default.
	ASTCapacity int `yaml:"ast_capacity"`

	// PoolCapacity bounds the result object pool; 0 takes the default.
	PoolCapacity int `yaml:"pool_capacity"`
}

// Config is the root configuration structure for mdtree.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// Disable lists block constructs excluded from tokenization
	// (e.g. "codeIndented", "htmlFlow").
	Disable []string `yaml:"disable"`

	// FreezeTokens makes parsed tokens immutable.
	FreezeTokens bool `yaml:"freeze_tokens"`

	// Caches configures the memoization layers.
	Caches CacheConfig `yaml:"caches"`

	// LogLevel sets logging verbosity ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:   FlavorCommonMark,
		LogLevel: "info",
		Caches: CacheConfig{
			ParseCache: true,
		},
		Format: FormatTree,
	}
}
