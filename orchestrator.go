package wikiform

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-wikiform/pkg/orchestrator"
	"github.com/goliatone/go-wikiform/pkg/render"
	"github.com/goliatone/go-wikiform/pkg/wiki"
)

// Request describes one pipeline run; alias exported via the root package for
// convenience.
type Request = orchestrator.Request

// RenderOptions describes per-request overrides that renderers can use, most
// notably the resolved theme configuration.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module so quick-start callers need a single import.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateMarkup expands the named wiki templates, normalizes their tables,
// and renders the result with the named renderer. It is the simplest entry
// point for callers that just want the markup fragment.
func GenerateMarkup(ctx context.Context, templates []string, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Templates: templates,
		Renderer:  rendererName,
	})
}

// GenerateMarkupFromDocuments renders markup from already-expanded wikitext,
// bypassing the fetch stage while still delegating to the orchestrator.
func GenerateMarkupFromDocuments(ctx context.Context, docs []wiki.Document, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Documents: docs,
		Renderer:  rendererName,
	})
}

// WithEndpoint points the orchestrator's default wiki client at an API
// endpoint, mirroring the orchestrator option at the root.
func WithEndpoint(endpoint string) orchestrator.Option {
	return orchestrator.WithEndpoint(endpoint)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme and variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeProvider constructs a go-theme selector from a ThemeProvider and
// registers it with the orchestrator so renderers receive resolved partials,
// tokens, and assets.
func WithThemeProvider(provider theme.ThemeProvider, defaultTheme, defaultVariant string) orchestrator.Option {
	return orchestrator.WithThemeProvider(provider, defaultTheme, defaultVariant)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
