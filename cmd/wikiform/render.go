package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-wikiform/internal/artifacts"
	"github.com/goliatone/go-wikiform/pkg/orchestrator"
	"github.com/goliatone/go-wikiform/pkg/render"
)

var (
	flagRenderOutput   string
	flagRenderSections []string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render markup from the normalized document",
	Long: `Render reads the FMBFAMILY-FINAL.json artifact and writes the rendered
markup to stdout. Use --output to write a file instead, and --section to
narrow the output to named sections.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&flagRenderOutput, "output", "", "output file (stdout if empty)")
	renderCmd.Flags().StringArrayVar(&flagRenderSections, "section", nil, "render only the named section (repeatable)")
}

func runRender(cmd *cobra.Command, args []string) error {
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

	doc, err := store.ReadRendererInput()
	if err != nil {
		return err
	}

	markup, err := orch.Render(context.Background(), doc, orchestrator.Request{
		Renderer: cfg.Renderer,
		RenderOptions: render.RenderOptions{
			Sections: render.SectionFilter{Titles: flagRenderSections},
		},
	})
	if err != nil {
		return err
	}
	return writeMarkup(markup, flagRenderOutput)
}
