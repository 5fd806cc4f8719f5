package config

// Template returns a commented starter configuration suitable for writing to
// a new .mdtree.yml.
func Template() []byte {
	return []byte(`# mdtree configuration
# See: https://github.com/yaklabco/mdtree

# Markdown flavor: commonmark or gfm
flavor: commonmark

# Block constructs to skip during tokenization
# disable:
#   - codeIndented
#   - htmlFlow

# Make parsed tokens immutable
# freeze_tokens: false

# Memoization layers
caches:
  parse_cache: true
  # parse_cache_capacity: 100
  # rule_result_capacity: 256
  # ast_capacity: 16
  # pool_capacity: 32

# Logging verbosity: debug, info, warn, or error
log_level: info
`)
}
