// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Parsing fields.
	FieldBytes     = "bytes"
	FieldLines     = "lines"
	FieldTokens    = "tokens"
	FieldEvents    = "events"
	FieldFrozen    = "frozen"
	FieldConstruct = "construct"

	// Cache fields.
	FieldCacheHit  = "cache_hit"
	FieldCacheSize = "cache_size"
	FieldRuleName  = "rule_name"
	FieldPattern   = "pattern"
	FieldPoolSize  = "pool_size"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rendering fields.
	FieldFormat   = "format"
	FieldLanguage = "language"
	FieldDepth    = "depth"
)
