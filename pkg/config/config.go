// Package config loads the pipeline configuration from YAML or JSON files,
// filling in the vendor defaults for anything left unset.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is probed in the working directory when no explicit path
// is given.
const DefaultFileName = "wikiform.yaml"

// Vendor defaults. The two templates cover the parameter list and its SMS
// counterpart as published on the vendor wiki.
const (
	DefaultEndpoint = "https://wiki.teltonika-gps.com/api.php"
	DefaultRenderer = "gpuiml"
)

// DefaultTemplates returns the wiki templates fetched when none are
// configured.
func DefaultTemplates() []string {
	return []string{
		"FMB Family Parameter list",
		"FMB Family SMS Parameter list",
	}
}

// Config drives the pipeline end to end: where to fetch, what to fetch,
// where artifacts land, and how the result is rendered.
type Config struct {
	Endpoint  string      `json:"endpoint" yaml:"endpoint"`
	Templates []string    `json:"templates" yaml:"templates"`
	OutputDir string      `json:"output_dir" yaml:"output_dir"`
	Renderer  string      `json:"renderer" yaml:"renderer"`
	Theme     ThemeConfig `json:"theme" yaml:"theme"`
}

// ThemeConfig selects a registered theme and optional variant for renderers
// that support theming.
type ThemeConfig struct {
	Name    string `json:"name" yaml:"name"`
	Variant string `json:"variant" yaml:"variant"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		Templates: DefaultTemplates(),
		OutputDir: ".",
		Renderer:  DefaultRenderer,
	}
}

// Load reads a configuration file and merges it over the defaults. An empty
// path probes DefaultFileName and silently falls back to Default when the
// file does not exist; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := parse(data, path)
	if err != nil {
		return Config{}, err
	}

	merged := merge(Default(), cfg)
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// Validate checks the configuration for values the pipeline cannot work
// with.
func (c Config) Validate() error {
	parsed, err := url.ParseRequestURI(c.Endpoint)
	if err != nil {
		return fmt.Errorf("config: invalid endpoint %q: %w", c.Endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("config: endpoint %q must use http or https", c.Endpoint)
	}
	if len(c.Templates) == 0 {
		return errors.New("config: at least one template is required")
	}
	for _, template := range c.Templates {
		if strings.TrimSpace(template) == "" {
			return errors.New("config: template names must not be blank")
		}
	}
	if strings.TrimSpace(c.Renderer) == "" {
		return errors.New("config: renderer is required")
	}
	return nil
}

func parse(data []byte, source string) (Config, error) {
	var cfg Config
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}

	return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}

func merge(base, overlay Config) Config {
	out := base
	if strings.TrimSpace(overlay.Endpoint) != "" {
		out.Endpoint = overlay.Endpoint
	}
	if len(overlay.Templates) > 0 {
		out.Templates = append([]string(nil), overlay.Templates...)
	}
	if strings.TrimSpace(overlay.OutputDir) != "" {
		out.OutputDir = overlay.OutputDir
	}
	if strings.TrimSpace(overlay.Renderer) != "" {
		out.Renderer = overlay.Renderer
	}
	if strings.TrimSpace(overlay.Theme.Name) != "" {
		out.Theme.Name = overlay.Theme.Name
	}
	if strings.TrimSpace(overlay.Theme.Variant) != "" {
		out.Theme.Variant = overlay.Theme.Variant
	}
	return out
}
