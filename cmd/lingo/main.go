// Command lingo translates text, markup, and structured JSON through the
// batching translation engine, with a persistent on-disk cache.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nirogya/lingo"
	"github.com/nirogya/lingo/adapter"
	"github.com/nirogya/lingo/cache"
	"github.com/nirogya/lingo/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	cfgFile    string
	targetLang string
	sourceLang string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "lingo",
		Short: "Batched, cached text translation",
		Long: `lingo translates text through a remote translation service, batching
requests and caching every result in a local database so repeated
content never hits the network twice.

Examples:
  lingo translate --lang as "Symptoms recorded"
  cat page.html | lingo html --lang bn
  lingo object --lang hi form.json
  lingo stats`,
		Version:       lingo.FullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.cfgFile, "config", "", "Config file (default: defaults + LINGO_ env)")
	pf.StringVar(&flags.targetLang, "lang", "", "Target language code (e.g. as, bn, brx)")
	pf.StringVar(&flags.sourceLang, "source", "", "Source language code (default: en)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newTranslateCommand(flags),
		newHTMLCommand(flags),
		newObjectCommand(flags),
		newStatsCommand(flags),
		newSweepCommand(flags),
		newExportCommand(flags),
		newImportCommand(flags),
		newLanguagesCommand(),
	)

	return rootCmd
}

func newTranslateCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate plain text arguments or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := buildEngine(flags)
			if err != nil {
				return err
			}
			defer closeFn()

			texts := args
			if len(texts) == 0 {
				input, err := readStdin(cmd.InOrStdin())
				if err != nil {
					return err
				}
				texts = strings.Split(strings.TrimRight(input, "\n"), "\n")
			}

			result := engine.TranslateBulk(cmd.Context(), texts)
			for _, text := range texts {
				fmt.Fprintln(cmd.OutOrStdout(), result.Translations[text])
			}
			for _, e := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q: %v\n", e.Text, e.Cause)
			}
			return nil
		},
	}
}

func newHTMLCommand(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "html [file]",
		Short: "Translate an HTML document or fragment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := buildEngine(flags)
			if err != nil {
				return err
			}
			defer closeFn()

			content, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			out := engine.TranslateHTML(cmd.Context(), content)
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newObjectCommand(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "object [file]",
		Short: "Translate every string leaf of a JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := buildEngine(flags)
			if err != nil {
				return err
			}
			defer closeFn()

			content, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			var tree any
			if err := json.Unmarshal([]byte(content), &tree); err != nil {
				return fmt.Errorf("parsing JSON input: %w", err)
			}

			translated := engine.TranslateObject(cmd.Context(), tree)
			data, err := json.MarshalIndent(translated, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), output, string(data)+"\n")
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newStatsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := buildEngine(flags)
			if err != nil {
				return err
			}
			defer closeFn()

			stats, err := engine.CacheStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading cache stats: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cached translations: %d\n", stats.Total)
			for lang, count := range stats.ByLanguage {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-8s %d  (%s)\n", lang, count, lingo.LanguageName(lang))
			}
			return nil
		},
	}
}

func newSweepCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove cache entries older than the TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := buildEngine(flags)
			if err != nil {
				return err
			}
			defer closeFn()

			removed, err := engine.ClearExpiredCache(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweeping cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", removed)
			return nil
		},
	}
}

func newExportCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export cached translations to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, _, err := buildStore(flags)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := warmFastTier(cmd.Context(), store); err != nil {
				return err
			}

			exporter := cache.NewExporter(store)
			meta := map[string]string{"exported_by": lingo.UserAgent()}
			if err := exporter.ExportToFile(args[0], meta); err != nil {
				return fmt.Errorf("exporting cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported cache to %s\n", args[0])
			return nil
		},
	}
}

func newImportCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import translations from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, _, err := buildStore(flags)
			if err != nil {
				return err
			}
			defer closeFn()

			importer := cache.NewImporter(store)
			result, err := importer.ImportFromFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("importing cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries (%d failed)\n",
				result.Imported, result.Failed)
			return nil
		},
	}
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, lang := range lingo.Languages {
				line := fmt.Sprintf("  %-6s %s (%s)", lang.Code, lang.DisplayName, lang.NativeName)
				if lang.FallbackCode != "" {
					line += fmt.Sprintf("  -> via %s", lang.FallbackCode)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

// buildEngine assembles the engine from config, flags, and environment.
// The returned func releases the durable store.
func buildEngine(flags *rootFlags) (*lingo.Engine, func(), error) {
	store, closeFn, cfg, err := buildStore(flags)
	if err != nil {
		return nil, nil, err
	}

	log, err := buildLogger(flags.verbose)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	backend, err := buildAdapter(cfg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	targetLang := cfg.TargetLang
	if flags.targetLang != "" {
		targetLang = flags.targetLang
	}
	sourceLang := cfg.SourceLang
	if flags.sourceLang != "" {
		sourceLang = flags.sourceLang
	}

	engine := lingo.New(targetLang, backend,
		lingo.WithStore(store),
		lingo.WithLogger(log),
		lingo.WithSourceLang(sourceLang),
		lingo.WithDebounce(cfg.Debounce),
		lingo.WithChunkSize(cfg.ChunkSize),
	)
	return engine, func() {
		_ = log.Sync()
		closeFn()
	}, nil
}

// buildStore opens the durable tier named by the config. A durable tier
// that cannot be opened degrades to the fast tier alone with a warning,
// never a hard failure.
func buildStore(flags *rootFlags) (*cache.Tiered, func(), *config.Config, error) {
	cfg, err := config.Load(flags.cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	var durable cache.DurableStore
	switch {
	case cfg.Cache.RedisURL != "":
		durable, err = cache.NewRedisStore(cache.RedisConfig{URL: cfg.Cache.RedisURL})
	case cfg.Cache.Path != "":
		durable, err = cache.NewSQLiteStore(cfg.Cache.Path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: durable cache unavailable, running in-memory only: %v\n", err)
		durable = nil
	}

	store := cache.NewTiered(durable,
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithCapacity(cfg.Cache.Capacity),
	)
	closeFn := func() {
		if durable != nil {
			_ = durable.Close()
		}
	}
	return store, closeFn, cfg, nil
}

func buildAdapter(cfg *config.Config) (lingo.Adapter, error) {
	var backend lingo.Adapter
	switch cfg.Adapter.Kind {
	case "openai":
		apiKey := cfg.Adapter.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("openai adapter requires an API key (set LINGO_ADAPTER_API_KEY or OPENAI_API_KEY)")
		}
		backend = adapter.NewOpenAIAdapter(adapter.OpenAIConfig{
			APIKey: apiKey,
			Model:  cfg.Adapter.Model,
		})
	case "mock":
		backend = adapter.NewMockAdapter()
	default:
		backend = adapter.NewHTTPAdapter(adapter.HTTPConfig{
			Endpoint: cfg.Adapter.Endpoint,
			APIKey:   cfg.Adapter.APIKey,
			Timeout:  cfg.Adapter.Timeout,
		})
	}

	if cfg.Adapter.RequestsPerMinute > 0 {
		backend = adapter.NewRateLimitedAdapter(backend, adapter.RateLimitConfig{
			RequestsPerMinute: cfg.Adapter.RequestsPerMinute,
		})
	}
	return backend, nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	logCfg := zap.NewDevelopmentConfig()
	log, err := logCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}

// warmFastTier pulls durable entries into the enumerable fast tier so the
// exporter sees the full cache, not just what this process touched.
func warmFastTier(ctx context.Context, store *cache.Tiered) error {
	return store.WarmFromDurable(ctx)
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 {
		return readStdin(stdin)
	}
	data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), nil
}

func readStdin(stdin io.Reader) (string, error) {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
