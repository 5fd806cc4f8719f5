// Package mdtoken defines the hierarchical token representation produced by
// parsing markdown: one Token per syntactic unit with source span, stable text
// snapshot, ordered children, and a weak parent back-reference.
package mdtoken

import "fmt"

// Token type names synthesized by the undefined-reference shim. All other type
// names come straight from the event producer (paragraph, atxHeading, htmlFlow,
// data, ...).
const (
	TypeUndefinedReference          = "undefinedReference"
	TypeUndefinedReferenceShortcut  = "undefinedReferenceShortcut"
	TypeUndefinedReferenceCollapsed = "undefinedReferenceCollapsed"
	TypeUndefinedReferenceFull      = "undefinedReferenceFull"
)

// Token is a node in the parse tree.
//
// Positions are 1-based with the end exclusive of the token's own extent.
// Text is captured once at construction as a direct substring of the original
// markdown and is never recomputed. Children are strictly ordered, pairwise
// non-overlapping, and each child's span lies within its parent's span.
type Token struct {
	// Type tags the syntactic category.
	Type string

	// Source position, 1-based, end exclusive.
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// Byte offsets into the source the token was built from.
	StartOffset int
	EndOffset   int

	// Text is the exact source substring spanned by the token.
	Text string

	// Children in document order; empty for leaves.
	Children []*Token

	// Parent is the enclosing token, nil for top-level tokens. Ownership flows
	// parent to children only.
	Parent *Token

	// HTMLReparse marks tokens manufactured by the recursive reparse of an
	// embedded raw-HTML region.
	HTMLReparse bool

	frozen bool
}

// Frozen reports whether the token has been made immutable.
func (t *Token) Frozen() bool {
	return t.frozen
}

// AppendChild appends child to parent's children and sets the parent link.
// Panics if parent is frozen: a write to a frozen token is a caller bug, never
// ignored silently.
func AppendChild(parent, child *Token) {
	if parent == nil || child == nil {
		return
	}
	parent.mustBeMutable("append child")
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}

// SetChildren replaces parent's children wholesale, re-establishing parent
// links. Panics if parent is frozen.
func SetChildren(parent *Token, children []*Token) {
	if parent == nil {
		return
	}
	parent.mustBeMutable("set children")
	parent.Children = children
	for _, child := range children {
		child.Parent = parent
	}
}

// SetText replaces the token's text snapshot. Panics if the token is frozen.
func SetText(t *Token, text string) {
	if t == nil {
		return
	}
	t.mustBeMutable("set text")
	t.Text = text
}

// Freeze makes the token and its children collection immutable. It does not
// descend; the builder freezes bottom-up, so children are already frozen by
// the time their parent's exit is processed.
func Freeze(t *Token) {
	if t == nil {
		return
	}
	t.frozen = true
}

// FreezeTree freezes t and every token reachable from it.
func FreezeTree(t *Token) {
	if t == nil {
		return
	}
	for _, child := range t.Children {
		FreezeTree(child)
	}
	t.frozen = true
}

func (t *Token) mustBeMutable(op string) {
	if t.frozen {
		panic(fmt.Sprintf("mdtoken: %s on frozen %s token at %d:%d", op, t.Type, t.StartLine, t.StartColumn))
	}
}

// String renders a compact description for debugging and dumps.
func (t *Token) String() string {
	return fmt.Sprintf("%s (%d:%d-%d:%d)", t.Type, t.StartLine, t.StartColumn, t.EndLine, t.EndColumn)
}
