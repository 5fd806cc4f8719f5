package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/parse"
)

type statsFlags struct {
	jsonOut bool
}

func newStatsCommand(global *globalFlags) *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "stats [files...]",
		Short: "Parse files and report cache statistics",
		Long: `Parse the given files twice, once cold and once warm, and report the
resulting occupancy of the memoization layers.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, global, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "emit statistics as JSON")

	return cmd
}

func runStats(cmd *cobra.Command, args []string, global *globalFlags, flags *statsFlags) error {
	cfg, err := loadConfig(cmd, global)
	if err != nil {
		return err
	}

	parser := newParserFromConfig(cfg)

	totalTokens := 0
	for _, path := range args {
		content, name, err := readInput(cmd, []string{path})
		if err != nil {
			return err
		}

		// Cold pass fills the caches, warm pass exercises them.
		result := parser.Parse(content, parse.ParseOptions{FreezeTokens: cfg.FreezeTokens})
		parser.Parse(content, parse.ParseOptions{FreezeTokens: cfg.FreezeTokens})
		parser.ParseAST(content)

		totalTokens += len(result.Flat)
		logging.Default().Debug("parsed",
			logging.FieldInput, name,
			logging.FieldTokens, len(result.Flat),
		)
	}

	stats := parser.CacheStats()
	out := cmd.OutOrStdout()

	if flags.jsonOut {
		payload := struct {
			Files  int `json:"files"`
			Tokens int `json:"tokens"`
			Caches any `json:"caches"`
		}{len(args), totalTokens, stats}

		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(payload); err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))
	renderer := pretty.NewRenderer(styles, out)
	fmt.Fprintf(out, "parsed %d file(s), %d tokens\n\n", len(args), totalTokens)
	fmt.Fprint(out, renderer.RenderStats(stats))
	return nil
}
