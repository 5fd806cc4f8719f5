package tokenize

//go:generate stringer -type=Kind

// Kind distinguishes enter and exit notifications.
type Kind uint8

// Event kinds.
const (
	Enter Kind = iota
	Exit
)

// Event type names. The vocabulary follows the micromark-style naming the
// tree consumer expects.
const (
	TypeParagraph          = "paragraph"
	TypeATXHeading         = "atxHeading"
	TypeATXHeadingSequence = "atxHeadingSequence"
	TypeCodeFenced         = "codeFenced"
	TypeCodeIndented       = "codeIndented"
	TypeHTMLFlow           = "htmlFlow"
	TypeHTMLFlowData       = "htmlFlowData"
	TypeThematicBreak      = "thematicBreak"
	TypeDefinition         = "definition"
	TypeLink               = "link"
	TypeImage              = "image"
	TypeLabel              = "label"
	TypeLabelLink          = "labelLink"
	TypeLabelImage         = "labelImage"
	TypeLabelMarker        = "labelMarker"
	TypeResource           = "resource"
	TypeReference          = "reference"
	TypeData               = "data"
	TypeLineEnding         = "lineEnding"
)

// Position is a 1-based line/column location. Columns count bytes.
type Position struct {
	Line   int
	Column int
}

// Event is one enter/exit notification describing a lexical unit. Both the
// enter and the matching exit carry the unit's full source span, so a consumer
// can construct the unit from the enter alone.
//
// Events are ephemeral: they describe positions in the source they were
// produced from and are consumed immediately by the tree builder.
type Event struct {
	Kind Kind
	Type string

	Start Position
	End   Position

	StartOffset int
	EndOffset   int
}
