package orchestrator

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme and variant choices resolve ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeProvider derives a selector from a go-theme provider and records
// the theme and variant applied when a request does not name one.
func WithThemeProvider(provider theme.ThemeProvider, defaultTheme, defaultVariant string) Option {
	return func(o *Orchestrator) {
		if provider == nil {
			return
		}
		if selector, ok := provider.(theme.ThemeSelector); ok {
			o.themeSelector = selector
		}
		o.defaultTheme = defaultTheme
		o.defaultVariant = defaultVariant
	}
}

// WithThemeDefaults records the theme and variant applied when a request
// leaves them empty.
func WithThemeDefaults(name, variant string) Option {
	return func(o *Orchestrator) {
		o.defaultTheme = name
		o.defaultVariant = variant
	}
}

// WithThemeFallbacks overrides the fallback partials merged into every
// resolved theme configuration.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// defaultThemeFallbacks lists the partials renderers consult even when a
// theme manifest does not override them.
func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		"gpuiml.document": "templates/document.tmpl",
	}
}

// applyTheme resolves the requested theme into req.RenderOptions.Theme. A
// theme already present on the request wins; without a selector or a theme
// name the request stays unthemed.
func (o *Orchestrator) applyTheme(req *Request) error {
	if req.RenderOptions.Theme != nil || o.themeSelector == nil {
		return nil
	}

	name := req.ThemeName
	if name == "" {
		name = o.defaultTheme
	}
	variant := req.ThemeVariant
	if variant == "" {
		variant = o.defaultVariant
	}
	if name == "" {
		return nil
	}

	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	req.RenderOptions.Theme = o.rendererConfig(selection)
	return nil
}

// rendererConfig flattens a theme selection into the renderer-facing config.
// Variant tokens override manifest tokens, fallback partials fill gaps, CSS
// variables mirror tokens with a "--" prefix, and asset URLs join the
// manifest prefix with per-variant file overrides.
func (o *Orchestrator) rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}

	fallbacks := o.themeFallbacks
	if fallbacks == nil {
		fallbacks = defaultThemeFallbacks()
	}
	for key, path := range fallbacks {
		cfg.Partials[key] = path
	}

	assets := map[string]string{}
	prefix := ""

	if manifest := selection.Manifest; manifest != nil {
		var variantSpec theme.Variant
		var hasVariant bool
		if manifest.Variants != nil {
			variantSpec, hasVariant = manifest.Variants[selection.Variant]
		}

		for key, path := range manifest.Templates {
			cfg.Partials[key] = path
		}
		for key, value := range manifest.Tokens {
			cfg.Tokens[key] = value
		}
		for key, file := range manifest.Assets.Files {
			assets[key] = file
		}
		prefix = manifest.Assets.Prefix

		if hasVariant {
			for key, path := range variantSpec.Templates {
				cfg.Partials[key] = path
			}
			for key, value := range variantSpec.Tokens {
				cfg.Tokens[key] = value
			}
			for key, file := range variantSpec.Assets.Files {
				assets[key] = file
			}
			if variantSpec.Assets.Prefix != "" {
				prefix = variantSpec.Assets.Prefix
			}
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	cfg.AssetURL = func(key string) string {
		file, ok := assets[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}

	return cfg
}
