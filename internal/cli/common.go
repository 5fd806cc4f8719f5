package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	"github.com/yaklabco/mdtree/pkg/parse"
	"github.com/yaklabco/mdtree/pkg/perfcache"
)

// loadConfig resolves the effective configuration: an explicit --config path
// wins, otherwise the project config is discovered upward from the working
// directory, otherwise defaults apply.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	var cfg *config.Config
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		discovered, path, err := config.Discover(cmd.Context(), "")
		if err != nil {
			return nil, err
		}
		if path != "" {
			logging.FromContext(cmd.Context()).Debug("loaded config", logging.FieldPath, path)
		}
		cfg = discovered
	}

	// --debug wins over the configured level.
	if !flags.debug && cfg.LogLevel != "" {
		logging.SetLevel(cfg.LogLevel)
	}
	return cfg, nil
}

// newParserFromConfig maps file configuration onto parser options.
func newParserFromConfig(cfg *config.Config) *parse.Parser {
	opts := parse.Options{
		EnableParseCache:   cfg.Caches.ParseCache,
		ParseCacheCapacity: cfg.Caches.ParseCacheCapacity,
		Caches: perfcache.NewCaches(perfcache.Options{
			RuleResultCapacity: cfg.Caches.RuleResultCapacity,
			ASTCapacity:        cfg.Caches.ASTCapacity,
			PoolCapacity:       cfg.Caches.PoolCapacity,
		}),
		Flavor: string(cfg.Flavor),
		Logger: logging.Default(),
	}
	opts.Tokenize.Disable = cfg.Disable
	return parse.NewParser(opts)
}

// readInput returns the markdown content named by args: a file path, or
// stdin when args is empty or names "-".
func readInput(cmd *cobra.Command, args []string) (content string, name string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}

	data, _, err := fsutil.ReadFile(cmd.Context(), args[0])
	if err != nil {
		return "", "", err
	}
	return string(data), args[0], nil
}
