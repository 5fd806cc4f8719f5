// Package tokenize produces the ordered enter/exit event stream for a
// markdown document. It is a single-pass, line-driven tokenizer covering the
// block and inline constructs the tree builder consumes, and it exposes the
// one overridable failure continuation used for undefined-reference
// detection.
//
// The producer is deterministic: the same source and options always yield the
// same event sequence.
package tokenize

import (
	"sort"
	"strings"
)

// lineSpan describes one source line: content is [start, contentEnd), the
// newline (LF or CRLF) is [contentEnd, end). For the last line without a
// trailing newline, contentEnd == end.
type lineSpan struct {
	start      int
	contentEnd int
	end        int
}

// Tokenizer holds the state of one tokenization pass. The failure
// continuation receives the Tokenizer so it can inspect the in-progress event
// buffer and the source.
type Tokenizer struct {
	source      string
	opts        Options
	lines       []lineSpan
	events      []Event
	definitions map[string]bool
}

// Events tokenizes source and returns the ordered event stream.
func Events(source string, opts Options) []Event {
	t := newTokenizer(source, opts)
	t.run()
	return t.events
}

func newTokenizer(source string, opts Options) *Tokenizer {
	t := &Tokenizer{
		source: source,
		opts:   opts,
		lines:  splitLines(source),
	}
	t.definitions = t.scanDefinitions()
	return t
}

// Events returns the in-progress event buffer. Intended for the failure
// continuation; the returned slice must not be retained past its invocation.
func (t *Tokenizer) Events() []Event {
	return t.events
}

// Source returns the markdown being tokenized.
func (t *Tokenizer) Source() string {
	return t.source
}

func splitLines(source string) []lineSpan {
	if len(source) == 0 {
		return nil
	}

	var lines []lineSpan
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			contentEnd := i
			if i > start && source[i-1] == '\r' {
				contentEnd = i - 1
			}
			lines = append(lines, lineSpan{start: start, contentEnd: contentEnd, end: i + 1})
			start = i + 1
		}
	}
	if start < len(source) {
		lines = append(lines, lineSpan{start: start, contentEnd: len(source), end: len(source)})
	}
	return lines
}

// positionAt converts a byte offset to a 1-based line/column.
func (t *Tokenizer) positionAt(offset int) Position {
	if len(t.lines) == 0 {
		return Position{Line: 1, Column: 1}
	}
	idx := sort.Search(len(t.lines), func(i int) bool {
		return t.lines[i].end > offset
	})
	if idx >= len(t.lines) {
		idx = len(t.lines) - 1
	}
	return Position{Line: idx + 1, Column: offset - t.lines[idx].start + 1}
}

func (t *Tokenizer) emit(kind Kind, typ string, start, end int) {
	t.events = append(t.events, Event{
		Kind:        kind,
		Type:        typ,
		Start:       t.positionAt(start),
		End:         t.positionAt(end),
		StartOffset: start,
		EndOffset:   end,
	})
}

func (t *Tokenizer) enter(typ string, start, end int) { t.emit(Enter, typ, start, end) }
func (t *Tokenizer) exit(typ string, start, end int)  { t.emit(Exit, typ, start, end) }

func (t *Tokenizer) leaf(typ string, start, end int) {
	t.enter(typ, start, end)
	t.exit(typ, start, end)
}

// lineEnding emits the newline event for line i, if the line has one.
func (t *Tokenizer) lineEnding(i int) {
	line := t.lines[i]
	if line.contentEnd < line.end {
		t.leaf(TypeLineEnding, line.contentEnd, line.end)
	}
}

// run drives the block-level loop. Each handler consumes one or more whole
// lines and returns the next line index.
func (t *Tokenizer) run() {
	for i := 0; i < len(t.lines); {
		i = t.tokenizeBlock(i)
	}
}

func (t *Tokenizer) tokenizeBlock(i int) int {
	line := t.lines[i]
	content := t.source[line.start:line.contentEnd]
	trimmed := strings.TrimLeft(content, " \t")
	indent := len(content) - len(trimmed)

	switch {
	case trimmed == "":
		t.lineEnding(i)
		return i + 1

	case indent >= 4 && !t.opts.disabled(ConstructCodeIndented):
		return t.tokenizeIndentedCode(i)

	case isATXHeading(trimmed):
		return t.tokenizeATXHeading(i, indent)

	case isThematicBreak(trimmed):
		t.leaf(TypeThematicBreak, line.start+indent, line.contentEnd)
		t.lineEnding(i)
		return i + 1

	case isCodeFence(trimmed):
		return t.tokenizeFencedCode(i, indent)

	case strings.HasPrefix(trimmed, "<") && !t.opts.disabled(ConstructHTMLFlow):
		return t.tokenizeHTMLFlow(i)

	case isDefinition(trimmed):
		t.leaf(TypeDefinition, line.start+indent, line.contentEnd)
		t.lineEnding(i)
		return i + 1

	default:
		return t.tokenizeParagraph(i, indent)
	}
}

// interruptsParagraph reports whether line i starts a construct that ends a
// paragraph. Indented code does not interrupt a paragraph.
func (t *Tokenizer) interruptsParagraph(i int) bool {
	line := t.lines[i]
	trimmed := strings.TrimLeft(t.source[line.start:line.contentEnd], " \t")

	if trimmed == "" || isATXHeading(trimmed) || isThematicBreak(trimmed) ||
		isCodeFence(trimmed) || isDefinition(trimmed) {
		return true
	}
	if strings.HasPrefix(trimmed, "<") && !t.opts.disabled(ConstructHTMLFlow) {
		return true
	}
	return false
}

func (t *Tokenizer) tokenizeIndentedCode(i int) int {
	j := i
	for j < len(t.lines) {
		line := t.lines[j]
		content := t.source[line.start:line.contentEnd]
		trimmed := strings.TrimLeft(content, " \t")
		if trimmed == "" || len(content)-len(trimmed) < 4 {
			break
		}
		j++
	}

	t.enter(TypeCodeIndented, t.lines[i].start, t.lines[j-1].contentEnd)
	for k := i; k < j; k++ {
		line := t.lines[k]
		t.leaf(TypeData, line.start, line.contentEnd)
		if k < j-1 {
			t.lineEnding(k)
		}
	}
	t.exit(TypeCodeIndented, t.lines[i].start, t.lines[j-1].contentEnd)
	t.lineEnding(j - 1)
	return j
}

func (t *Tokenizer) tokenizeATXHeading(i, indent int) int {
	line := t.lines[i]
	start := line.start + indent

	seqEnd := start
	for seqEnd < line.contentEnd && t.source[seqEnd] == '#' {
		seqEnd++
	}

	t.enter(TypeATXHeading, start, line.contentEnd)
	t.leaf(TypeATXHeadingSequence, start, seqEnd)

	// Inline content after the marker and its separating whitespace.
	contentStart := seqEnd
	for contentStart < line.contentEnd && (t.source[contentStart] == ' ' || t.source[contentStart] == '\t') {
		contentStart++
	}
	if contentStart < line.contentEnd {
		t.tokenizeInline(contentStart, line.contentEnd)
	}

	t.exit(TypeATXHeading, start, line.contentEnd)
	t.lineEnding(i)
	return i + 1
}

func (t *Tokenizer) tokenizeFencedCode(i, indent int) int {
	open := t.lines[i]
	fenceChar := t.source[open.start+indent]
	fenceLen := 0
	for p := open.start + indent; p < open.contentEnd && t.source[p] == fenceChar; p++ {
		fenceLen++
	}

	// Find the closing fence line.
	closing := -1
	for j := i + 1; j < len(t.lines); j++ {
		line := t.lines[j]
		trimmed := strings.TrimSpace(t.source[line.start:line.contentEnd])
		if len(trimmed) >= fenceLen && strings.Count(trimmed, string(fenceChar)) == len(trimmed) {
			closing = j
			break
		}
	}

	last := closing
	if last == -1 {
		last = len(t.lines) - 1
	}

	t.enter(TypeCodeFenced, open.start+indent, t.lines[last].contentEnd)
	for k := i; k <= last; k++ {
		line := t.lines[k]
		if line.contentEnd > line.start {
			t.leaf(TypeData, line.start, line.contentEnd)
		}
		if k < last {
			t.lineEnding(k)
		}
	}
	t.exit(TypeCodeFenced, open.start+indent, t.lines[last].contentEnd)
	t.lineEnding(last)
	return last + 1
}

func (t *Tokenizer) tokenizeHTMLFlow(i int) int {
	// The block runs until the next blank line or end of input.
	j := i
	for j < len(t.lines) {
		line := t.lines[j]
		if strings.TrimSpace(t.source[line.start:line.contentEnd]) == "" {
			break
		}
		j++
	}

	t.enter(TypeHTMLFlow, t.lines[i].start, t.lines[j-1].contentEnd)
	for k := i; k < j; k++ {
		line := t.lines[k]
		t.leaf(TypeHTMLFlowData, line.start, line.contentEnd)
		if k < j-1 {
			t.lineEnding(k)
		}
	}
	t.exit(TypeHTMLFlow, t.lines[i].start, t.lines[j-1].contentEnd)
	t.lineEnding(j - 1)
	return j
}

func (t *Tokenizer) tokenizeParagraph(i, indent int) int {
	j := i + 1
	for j < len(t.lines) && !t.interruptsParagraph(j) {
		j++
	}

	start := t.lines[i].start + indent
	end := t.lines[j-1].contentEnd

	t.enter(TypeParagraph, start, end)
	for k := i; k < j; k++ {
		line := t.lines[k]
		lineStart := line.start
		if k == i {
			lineStart = start
		}
		t.tokenizeInline(lineStart, line.contentEnd)
		if k < j-1 {
			t.lineEnding(k)
		}
	}
	t.exit(TypeParagraph, start, end)
	t.lineEnding(j - 1)
	return j
}

// tokenizeInline scans [start, end) of a single line, emitting data events and
// link/image constructs.
func (t *Tokenizer) tokenizeInline(start, end int) {
	pos := start
	dataStart := start

	flushData := func(upto int) {
		if upto > dataStart {
			t.leaf(TypeData, dataStart, upto)
		}
	}

	for pos < end {
		ch := t.source[pos]
		switch {
		case ch == '\\' && pos+1 < end:
			pos += 2

		case ch == '[', ch == '!' && pos+1 < end && t.source[pos+1] == '[':
			openLen := 1
			if ch == '!' {
				openLen = 2
			}
			flushData(pos)
			dataStart = pos
			next, handled := t.tokenizeBracket(pos, openLen, end)
			if handled {
				pos = next
				dataStart = pos
			} else {
				pos++
			}

		default:
			pos++
		}
	}
	flushData(end)
}

// tokenizeBracket handles a label construct opened at open ([ or ![). It
// returns the position to resume scanning at and whether anything other than
// plain data was produced.
func (t *Tokenizer) tokenizeBracket(open, openLen, end int) (int, bool) {
	textStart := open + openLen
	textEnd, ok := t.findUnescaped(']', textStart, end, true)
	if !ok {
		return 0, false
	}
	text := t.source[textStart:textEnd]
	after := textEnd + 1

	// Inline resource: [text](destination).
	if after < end && t.source[after] == '(' {
		if parenClose, found := t.findUnescaped(')', after+1, end, false); found {
			t.emitResourceLink(open, openLen, textStart, textEnd, after, parenClose)
			return parenClose + 1, true
		}
	}

	// Full or collapsed reference: [text][label] / [text][].
	if after < end && t.source[after] == '[' {
		if labelEnd, found := t.findUnescaped(']', after+1, end, true); found {
			label := t.source[after+1 : labelEnd]
			lookup := label
			if label == "" {
				lookup = text
			}
			if lookup != "" && t.definitions[NormalizeLabel(lookup)] {
				t.emitReferenceLink(open, openLen, textStart, textEnd, after, labelEnd+1)
				return labelEnd + 1, true
			}
			// The label did not resolve: the leading [text] part fails on its
			// own and the trailing [label] / [] is rescanned as a fresh
			// construct, producing its own failure.
			t.failLabel(open, openLen, textStart, textEnd)
			return after, true
		}
	}

	// Shortcut reference: bare [text].
	if text != "" && t.definitions[NormalizeLabel(text)] {
		t.emitReferenceLink(open, openLen, textStart, textEnd, -1, after)
		return after, true
	}

	t.failLabel(open, openLen, textStart, textEnd)
	return after, true
}

// findUnescaped scans for the first unescaped marker in [from, end). With
// rejectOpen set, an unescaped '[' before the marker aborts the scan so the
// innermost bracket pair wins.
func (t *Tokenizer) findUnescaped(marker byte, from, end int, rejectOpen bool) (int, bool) {
	for p := from; p < end; p++ {
		switch t.source[p] {
		case '\\':
			p++
		case marker:
			return p, true
		case '[':
			if rejectOpen {
				return 0, false
			}
		}
	}
	return 0, false
}

// emitResourceLink emits events for an inline [text](destination) construct.
func (t *Tokenizer) emitResourceLink(open, openLen, textStart, textEnd, parenOpen, parenClose int) {
	typ := TypeLink
	if openLen == 2 {
		typ = TypeImage
	}
	t.enter(typ, open, parenClose+1)

	t.enter(TypeLabel, open, textEnd+1)
	t.leaf(TypeLabelMarker, open, open+openLen)
	if textEnd > textStart {
		t.leaf(TypeData, textStart, textEnd)
	}
	t.leaf(TypeLabelMarker, textEnd, textEnd+1)
	t.exit(TypeLabel, open, textEnd+1)

	t.enter(TypeResource, parenOpen, parenClose+1)
	if parenClose > parenOpen+1 {
		t.leaf(TypeData, parenOpen+1, parenClose)
	}
	t.exit(TypeResource, parenOpen, parenClose+1)

	t.exit(typ, open, parenClose+1)
}

// emitReferenceLink emits events for a resolved reference construct. For full
// and collapsed styles refOpen is the offset of the second '['; for shortcut
// it is -1. end is the offset just past the construct.
func (t *Tokenizer) emitReferenceLink(open, openLen, textStart, textEnd, refOpen, end int) {
	typ := TypeLink
	if openLen == 2 {
		typ = TypeImage
	}
	t.enter(typ, open, end)

	t.enter(TypeLabel, open, textEnd+1)
	t.leaf(TypeLabelMarker, open, open+openLen)
	if textEnd > textStart {
		t.leaf(TypeData, textStart, textEnd)
	}
	t.leaf(TypeLabelMarker, textEnd, textEnd+1)
	t.exit(TypeLabel, open, textEnd+1)

	if refOpen >= 0 {
		t.enter(TypeReference, refOpen, end)
		if end-1 > refOpen+1 {
			t.leaf(TypeData, refOpen+1, end-1)
		}
		t.exit(TypeReference, refOpen, end)
	}

	t.exit(typ, open, end)
}

// failLabel performs the label-resolution failure path: the provisional label
// events go into the buffer, the failure continuation runs against them, and
// then the original failure behavior rewrites the construct to plain data.
func (t *Tokenizer) failLabel(open, openLen, textStart, textEnd int) {
	labelType := TypeLabelLink
	if openLen == 2 {
		labelType = TypeLabelImage
	}

	mark := len(t.events)
	t.enter(labelType, open, open+openLen)
	t.leaf(TypeLabelMarker, open, open+openLen)
	if textEnd > textStart {
		t.leaf(TypeData, textStart, textEnd)
	}
	t.leaf(TypeLabelMarker, textEnd, textEnd+1)

	if t.opts.OnLabelMiss != nil {
		t.opts.OnLabelMiss(t)
	}

	// Original failure behavior: the whole construct is literal text.
	t.events = t.events[:mark]
	t.leaf(TypeData, open, textEnd+1)
}

// scanDefinitions pre-scans the source for link reference definitions so
// inline constructs can resolve labels in a single forward pass.
func (t *Tokenizer) scanDefinitions() map[string]bool {
	defs := make(map[string]bool)
	for _, line := range t.lines {
		trimmed := strings.TrimLeft(t.source[line.start:line.contentEnd], " \t")
		if label, ok := parseDefinition(trimmed); ok {
			defs[NormalizeLabel(label)] = true
		}
	}
	return defs
}

// parseDefinition matches a reference definition line: [label]: destination.
func parseDefinition(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") {
		return "", false
	}
	close := -1
	for p := 1; p < len(line); p++ {
		if line[p] == '\\' {
			p++
			continue
		}
		if line[p] == ']' {
			close = p
			break
		}
	}
	if close <= 1 || close+1 >= len(line) || line[close+1] != ':' {
		return "", false
	}
	dest := strings.TrimSpace(line[close+2:])
	if dest == "" {
		return "", false
	}
	return line[1:close], true
}

func isDefinition(line string) bool {
	_, ok := parseDefinition(line)
	return ok
}

func isATXHeading(line string) bool {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n < 1 || n > 6 {
		return false
	}
	return n == len(line) || line[n] == ' ' || line[n] == '\t'
}

func isThematicBreak(line string) bool {
	if line == "" {
		return false
	}
	marker := line[0]
	if marker != '*' && marker != '-' && marker != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case marker:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

func isCodeFence(line string) bool {
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}
