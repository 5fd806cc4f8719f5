package tokenize

import "strings"

// Construct names accepted by Options.Disable.
const (
	ConstructCodeIndented = "codeIndented"
	ConstructHTMLFlow     = "htmlFlow"
)

// Options configures one tokenization pass.
type Options struct {
	// Disable lists constructs the tokenizer must not recognize. Disabled
	// construct starts fall through to paragraph content. Used by the tree
	// builder when reparsing embedded raw-HTML regions.
	Disable []string

	// OnLabelMiss is the label-resolution failure continuation. It is invoked
	// at the moment a reference-style link/image label fails to resolve,
	// while the provisional label events are still in the event buffer. After
	// it returns the tokenizer performs its normal failure behavior
	// (rewriting the construct to plain data) regardless of what the
	// continuation did.
	OnLabelMiss func(t *Tokenizer)
}

func (o Options) disabled(construct string) bool {
	for _, name := range o.Disable {
		if name == construct {
			return true
		}
	}
	return false
}

// NormalizeLabel normalizes a reference label for matching.
// Per CommonMark: case-insensitive, whitespace collapsed.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}
