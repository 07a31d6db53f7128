package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the normalization pipeline.
type RenderOptions struct {
	// Theme carries the resolved theme configuration (tokens, partial
	// overrides, CSS variables, asset resolver). A nil Theme renders with
	// the renderer's built-in defaults.
	Theme *theme.RendererConfig

	// Sections narrows rendering to the named document sections. The filter
	// is applied before the renderer runs; an empty filter renders the whole
	// document.
	Sections SectionFilter
}
