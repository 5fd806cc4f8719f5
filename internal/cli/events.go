package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/tokenize"
)

type eventsFlags struct {
	jsonOut bool
	disable []string
}

func newEventsCommand(global *globalFlags) *cobra.Command {
	flags := &eventsFlags{}

	cmd := &cobra.Command{
		Use:   "events [file]",
		Short: "Print the flat tokenization event stream",
		Long: `Tokenize Markdown and print the raw enter/exit event stream, including
the synthesized undefined-reference events appended at the end.

Reads from stdin when no file is given or the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd, args, global, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "emit events as JSON")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil,
		"block constructs to skip (codeIndented, htmlFlow)")

	return cmd
}

func runEvents(cmd *cobra.Command, args []string, global *globalFlags, flags *eventsFlags) error {
	cfg, err := loadConfig(cmd, global)
	if err != nil {
		return err
	}
	cfg.Disable = append(cfg.Disable, flags.disable...)

	content, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	parser := newParserFromConfig(cfg)
	events := parser.GetEvents(content)

	logging.Default().Debug("tokenized",
		logging.FieldInput, name,
		logging.FieldEvents, len(events),
	)

	out := cmd.OutOrStdout()
	if flags.jsonOut {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(eventsToJSON(events)); err != nil {
			return fmt.Errorf("encode events: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))
	renderer := pretty.NewRenderer(styles, out)
	fmt.Fprint(out, renderer.RenderEvents(events))
	return nil
}

type eventJSON struct {
	Kind        string `json:"kind"`
	Type        string `json:"type"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
}

func eventsToJSON(events []tokenize.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		kind := "enter"
		if ev.Kind == tokenize.Exit {
			kind = "exit"
		}
		out = append(out, eventJSON{
			Kind:        kind,
			Type:        ev.Type,
			StartLine:   ev.Start.Line,
			StartColumn: ev.Start.Column,
			EndLine:     ev.End.Line,
			EndColumn:   ev.End.Column,
			StartOffset: ev.StartOffset,
			EndOffset:   ev.EndOffset,
		})
	}
	return out
}
