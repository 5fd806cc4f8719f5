// Package refshim detects unresolved link/image references. It wraps the
// tokenizer's label-resolution failure continuation and, when a reference
// style construct failed to resolve, synthesizes a descriptive token pair
// instead of letting the information vanish into plain text.
//
// Detection is a heuristic layered on the tokenizer's own resolution failure:
// the shim never re-resolves labels itself.
package refshim

import (
	"strings"

	"github.com/yaklabco/mdtree/pkg/mdtoken"
	"github.com/yaklabco/mdtree/pkg/tokenize"
)

// Shim accumulates synthetic undefined-reference events over one tokenization
// pass. Create one per pass; the synthetic list is concatenated onto the real
// event stream by the caller.
type Shim struct {
	// original is the wrapped failure continuation, invoked on every path so
	// tokenizer state stays consistent whether or not the shim recognized the
	// construct.
	original func(*tokenize.Tokenizer)

	synthetic []tokenize.Event

	// End of the previous synthetic outer token, for adjacency merging.
	lastEndOffset int
	hasPrevious   bool
}

// New creates a shim wrapping the given failure continuation (which may be
// nil).
func New(original func(*tokenize.Tokenizer)) *Shim {
	return &Shim{original: original, lastEndOffset: -1}
}

// Synthetic returns the accumulated synthetic enter/exit events.
func (s *Shim) Synthetic() []tokenize.Event {
	return s.synthetic
}

// OnLabelMiss is the continuation to install as tokenize.Options.OnLabelMiss.
func (s *Shim) OnLabelMiss(t *tokenize.Tokenizer) {
	s.detect(t)
	if s.original != nil {
		s.original(t)
	}
}

func (s *Shim) detect(t *tokenize.Tokenizer) {
	events := t.Events()

	markerIdx := lastUnmatchedOpenLabel(events)
	if markerIdx < 0 {
		return
	}
	marker := events[markerIdx]

	// The literal label text is everything the tokenizer buffered as data and
	// line endings after the open marker.
	var parts []string
	textStart, textEnd := -1, -1
	var textStartPos, textEndPos tokenize.Position
	for _, ev := range events[markerIdx+1:] {
		if ev.Kind != tokenize.Enter {
			continue
		}
		if ev.Type != tokenize.TypeData && ev.Type != tokenize.TypeLineEnding {
			continue
		}
		parts = append(parts, t.Source()[ev.StartOffset:ev.EndOffset])
		if textStart < 0 {
			textStart = ev.StartOffset
			textStartPos = ev.Start
		}
		textEnd = ev.EndOffset
		textEndPos = ev.End
	}
	text := strings.TrimSpace(strings.Join(parts, ""))

	// Nested or ambiguous label text is left to the original failure path.
	if containsUnescapedBracket(text) {
		return
	}

	last := events[len(events)-1]
	start := marker.StartOffset
	startPos := marker.Start
	end := last.EndOffset
	endPos := last.End

	adjacent := s.hasPrevious && s.lastEndOffset == start

	switch {
	case adjacent && text == "":
		// [text][]: extend the previous token into a collapsed reference.
		s.retype(mdtoken.TypeUndefinedReferenceCollapsed, end, endPos)

	case adjacent:
		// [text][label]: merge into a full reference keeping the earlier
		// token's start; the duplicate pair is never appended.
		s.retype(mdtoken.TypeUndefinedReferenceFull, end, endPos)

	case text == "":
		// A bare [] with nothing to merge into is not a reference attempt.
		return

	default:
		// Bare [text] is a shortcut reference.
		s.append(mdtoken.TypeUndefinedReferenceShortcut,
			start, end, startPos, endPos,
			textStart, textEnd, textStartPos, textEndPos)
	}

	s.lastEndOffset = end
	s.hasPrevious = true
}

// append emits the synthetic enter/exit pair: an outer classification token
// wrapping an inner generic undefined-reference token spanning the label text.
func (s *Shim) append(outerType string, start, end int, startPos, endPos tokenize.Position,
	textStart, textEnd int, textStartPos, textEndPos tokenize.Position,
) {
	outer := tokenize.Event{
		Type:        outerType,
		Start:       startPos,
		End:         endPos,
		StartOffset: start,
		EndOffset:   end,
	}
	inner := tokenize.Event{
		Type:        mdtoken.TypeUndefinedReference,
		Start:       textStartPos,
		End:         textEndPos,
		StartOffset: textStart,
		EndOffset:   textEnd,
	}

	outer.Kind = tokenize.Enter
	inner.Kind = tokenize.Enter
	s.synthetic = append(s.synthetic, outer, inner)
	inner.Kind = tokenize.Exit
	outer.Kind = tokenize.Exit
	s.synthetic = append(s.synthetic, inner, outer)
}

// retype rewrites the previous synthetic outer token's type and extends its
// end to cover the newly detected part.
func (s *Shim) retype(outerType string, end int, endPos tokenize.Position) {
	n := len(s.synthetic)
	if n < 4 {
		return
	}
	// Layout per detection: enter outer, enter inner, exit inner, exit outer.
	for _, i := range []int{n - 4, n - 1} {
		s.synthetic[i].Type = outerType
		s.synthetic[i].End = endPos
		s.synthetic[i].EndOffset = end
	}
}

// lastUnmatchedOpenLabel finds the most recent labelImage/labelLink enter in
// the buffer with no matching exit after it, or -1.
func lastUnmatchedOpenLabel(events []tokenize.Event) int {
	pendingExits := 0
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if ev.Type != tokenize.TypeLabelImage && ev.Type != tokenize.TypeLabelLink {
			continue
		}
		if ev.Kind == tokenize.Exit {
			pendingExits++
			continue
		}
		if pendingExits > 0 {
			pendingExits--
			continue
		}
		return i
	}
	return -1
}

// containsUnescapedBracket reports whether text holds a closing bracket that
// is not backslash-escaped.
func containsUnescapedBracket(text string) bool {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case ']':
			return true
		}
	}
	return false
}
