package main

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-wikiform/pkg/config"
	"github.com/goliatone/go-wikiform/pkg/orchestrator"
)

// builtinThemes lists the manifests compiled into the binary. The base
// configurator palette matches the renderer defaults so themed and unthemed
// output agree until a variant overrides the tokens.
func builtinThemes() []*theme.Manifest {
	return []*theme.Manifest{
		{
			Name:    "configurator",
			Version: "1.0.0",
			Tokens: map[string]string{
				"section-bg": "#202124",
				"table-bg":   "#2b2d30",
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Tokens: map[string]string{
						"section-bg": "#1b1b1d",
						"table-bg":   "#242528",
					},
				},
			},
		},
	}
}

// themeOptions builds the orchestrator theme wiring for the configured theme.
// An empty theme name leaves rendering unthemed.
func themeOptions(cfg config.ThemeConfig) ([]orchestrator.Option, error) {
	if cfg.Name == "" {
		return nil, nil
	}

	registry := theme.NewRegistry()
	for _, manifest := range builtinThemes() {
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("register theme %q: %w", manifest.Name, err)
		}
	}

	return []orchestrator.Option{
		orchestrator.WithThemeProvider(registry, cfg.Name, cfg.Variant),
	}, nil
}
