package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-wikiform/internal/artifacts"
	"github.com/goliatone/go-wikiform/internal/prompt"
	"github.com/goliatone/go-wikiform/pkg/config"
	"github.com/goliatone/go-wikiform/pkg/orchestrator"
)

// Flag variables shared across subcommands.
var (
	flagConfig       string
	flagOutputDir    string
	flagEndpoint     string
	flagTemplates    []string
	flagRenderer     string
	flagTheme        string
	flagThemeVariant string
	flagQuiet        bool
)

// prompter drives the interactive questions. Package-level so command flows
// stay testable without a terminal.
var prompter prompt.Driver = prompt.NewSurveyDriver()

var rootCmd = &cobra.Command{
	Use:   "wikiform",
	Short: "Generate GPUI form markup from vendor wiki parameter tables",
	Long: `wikiform expands parameter documentation templates through a MediaWiki API,
normalizes their tables into flat records, and renders GPUI form markup.

Each stage persists a JSON artifact so stages can also run independently:

  wikiform fetch       expand and parse the configured templates
  wikiform normalize   flatten raw documents into finalTables.json
  wikiform render      render markup from the normalized document
  wikiform generate    run the full pipeline in one pass
  wikiform export      project the normalized document to OpenAPI

Progress goes to stderr; rendered markup is the only stdout payload.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(0)
		if flagQuiet {
			log.SetOutput(io.Discard)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "configuration file (default: wikiform.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "artifact directory (default: from configuration)")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "wiki API endpoint override")
	rootCmd.PersistentFlags().StringArrayVar(&flagTemplates, "template", nil, "wiki template to process (repeatable)")
	rootCmd.PersistentFlags().StringVar(&flagRenderer, "renderer", "", "renderer name override")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "theme name")
	rootCmd.PersistentFlags().StringVar(&flagThemeVariant, "theme-variant", "", "theme variant")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "suppress progress output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig layers command-line overrides over the configuration file.
func resolveConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagEndpoint != "" {
		cfg.Endpoint = flagEndpoint
	}
	if len(flagTemplates) > 0 {
		cfg.Templates = append([]string(nil), flagTemplates...)
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagRenderer != "" {
		cfg.Renderer = flagRenderer
	}
	if flagTheme != "" {
		cfg.Theme.Name = flagTheme
	}
	if flagThemeVariant != "" {
		cfg.Theme.Variant = flagThemeVariant
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildOrchestrator wires the pipeline from the resolved configuration.
func buildOrchestrator(cfg config.Config, store *artifacts.Store) (*orchestrator.Orchestrator, error) {
	options := []orchestrator.Option{
		orchestrator.WithEndpoint(cfg.Endpoint),
		orchestrator.WithDefaultRenderer(cfg.Renderer),
		orchestrator.WithArtifacts(store),
	}
	themed, err := themeOptions(cfg.Theme)
	if err != nil {
		return nil, err
	}
	options = append(options, themed...)
	return orchestrator.New(options...), nil
}

// writeMarkup sends rendered markup to the chosen destination. When path is
// empty the markup goes to stdout untouched.
func writeMarkup(markup []byte, path string) error {
	if path != "" {
		if err := os.WriteFile(path, markup, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Printf("markup written to %s", path)
		return nil
	}
	_, err := os.Stdout.Write(markup)
	return err
}
