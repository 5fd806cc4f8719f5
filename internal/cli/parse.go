package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/mdtoken"
	"github.com/yaklabco/mdtree/pkg/parse"
)

// ErrUndefinedRefsFound is returned when --check-refs finds undefined
// references. It signals the exit code and is not logged as a failure.
var ErrUndefinedRefsFound = errors.New("undefined references found")

type parseFlags struct {
	format    string
	freeze    bool
	disable   []string
	checkRefs bool
}

func newParseCommand(global *globalFlags) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a Markdown file into a token tree",
		Long: `Parse Markdown into a hierarchical token tree and print it.

Reads from stdin when no file is given or the file is "-".

Examples:
  mdtree parse README.md             # Render the token tree
  mdtree parse --format json doc.md  # Emit the tree as JSON
  mdtree parse --check-refs doc.md   # Exit 1 on undefined references
  cat doc.md | mdtree parse          # Parse stdin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "output format: tree, json, or events")
	cmd.Flags().BoolVar(&flags.freeze, "freeze", false, "freeze tokens after parsing")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil,
		"block constructs to skip (codeIndented, htmlFlow)")
	cmd.Flags().BoolVar(&flags.checkRefs, "check-refs", false,
		"fail when undefined references are present")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, global *globalFlags, flags *parseFlags) error {
	cfg, err := loadConfig(cmd, global)
	if err != nil {
		return err
	}
	if err := applyParseFlags(cfg, flags); err != nil {
		return err
	}

	content, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	parser := newParserFromConfig(cfg)
	result := parser.Parse(content, parse.ParseOptions{FreezeTokens: cfg.FreezeTokens})

	logging.Default().Debug("parsed",
		logging.FieldInput, name,
		logging.FieldBytes, len(content),
		logging.FieldTokens, len(result.Flat),
	)

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))
	renderer := pretty.NewRenderer(styles, out)
	switch cfg.Format {
	case config.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(tokensToJSON(result.Roots)); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
	case config.FormatEvents:
		fmt.Fprint(out, renderer.RenderEvents(parser.GetEvents(content)))
	default:
		fmt.Fprint(out, renderer.RenderTree(result.Roots))
	}

	if flags.checkRefs {
		undefined := countUndefinedRefs(result.Roots)
		if undefined > 0 {
			logging.Default().Warn("undefined references", "count", undefined)
			return ErrUndefinedRefsFound
		}
	}

	return nil
}

// applyParseFlags overlays command-line flags onto the file configuration.
func applyParseFlags(cfg *config.Config, flags *parseFlags) error {
	if flags.format != "" {
		format := config.OutputFormat(flags.format)
		if !format.IsValid() {
			return fmt.Errorf("unknown output format %q", flags.format)
		}
		cfg.Format = format
	}
	if flags.freeze {
		cfg.FreezeTokens = true
	}
	cfg.Disable = append(cfg.Disable, flags.disable...)
	return nil
}

func countUndefinedRefs(roots []*mdtoken.Token) int {
	return len(mdtoken.FilterForest(roots, func(t *mdtoken.Token) bool {
		switch t.Type {
		case mdtoken.TypeUndefinedReferenceShortcut,
			mdtoken.TypeUndefinedReferenceCollapsed,
			mdtoken.TypeUndefinedReferenceFull:
			return true
		default:
			return false
		}
	}))
}

// tokenJSON is the serialized form of a token: the parent link is implied by
// nesting instead of serialized, which keeps the output acyclic.
type tokenJSON struct {
	Type        string      `json:"type"`
	StartLine   int         `json:"startLine"`
	StartColumn int         `json:"startColumn"`
	EndLine     int         `json:"endLine"`
	EndColumn   int         `json:"endColumn"`
	Text        string      `json:"text"`
	HTMLReparse bool        `json:"htmlReparse,omitempty"`
	Children    []tokenJSON `json:"children,omitempty"`
}

func tokensToJSON(tokens []*mdtoken.Token) []tokenJSON {
	out := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tokenJSON{
			Type:        tok.Type,
			StartLine:   tok.StartLine,
			StartColumn: tok.StartColumn,
			EndLine:     tok.EndLine,
			EndColumn:   tok.EndColumn,
			Text:        tok.Text,
			HTMLReparse: tok.HTMLReparse,
			Children:    tokensToJSON(tok.Children),
		})
	}
	return out
}
