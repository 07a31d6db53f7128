package main

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-wikiform/internal/artifacts"
	"github.com/goliatone/go-wikiform/internal/prompt"
	"github.com/goliatone/go-wikiform/pkg/orchestrator"
	"github.com/goliatone/go-wikiform/pkg/render"
)

var (
	flagInteractive      bool
	flagGenerateOutput   string
	flagGenerateSections []string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run fetch, normalize, and render in one pass",
	Long: `Generate expands and parses every configured template, normalizes the
merged result, and renders markup to stdout. The intermediate artifacts are
persisted along the way. With --interactive the template list is picked from
a checklist instead of taken from the configuration.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "select templates interactively")
	generateCmd.Flags().StringVar(&flagGenerateOutput, "output", "", "output file (stdout if empty)")
	generateCmd.Flags().StringArrayVar(&flagGenerateSections, "section", nil, "render only the named section (repeatable)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	store, err := artifacts.New(cfg.OutputDir)
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, store)
	if err != nil {
		return err
	}

	ctx := context.Background()
	templates := cfg.Templates
	if flagInteractive {
		templates, err = selectTemplates(ctx, cfg.Templates)
		if err != nil {
			return err
		}
	}

	log.Printf("generating markup from %d templates", len(templates))
	markup, err := orch.Generate(ctx, orchestrator.Request{
		Templates: templates,
		Renderer:  cfg.Renderer,
		RenderOptions: render.RenderOptions{
			Sections: render.SectionFilter{Titles: flagGenerateSections},
		},
	})
	if err != nil {
		return err
	}
	return writeMarkup(markup, flagGenerateOutput)
}

// selectTemplates narrows the configured template list through an interactive
// checklist. Every template starts selected.
func selectTemplates(ctx context.Context, configured []string) ([]string, error) {
	defaults := make([]int, len(configured))
	for i := range configured {
		defaults[i] = i
	}
	picked, err := prompter.MultiSelect(ctx, prompt.SelectConfig{
		Message:  "Templates to process:",
		Options:  configured,
		Defaults: defaults,
	})
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, errors.New("no templates selected")
	}

	out := make([]string, 0, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(configured) {
			out = append(out, configured[idx])
		}
	}
	return out, nil
}
