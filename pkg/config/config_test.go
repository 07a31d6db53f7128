package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Endpoint != "https://wiki.teltonika-gps.com/api.php" {
		t.Fatalf("unexpected endpoint %q", cfg.Endpoint)
	}
	want := []string{"FMB Family Parameter list", "FMB Family SMS Parameter list"}
	if diff := cmp.Diff(want, cfg.Templates); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
	if cfg.Renderer != "gpuiml" || cfg.OutputDir != "." {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadYAMLMergesOverDefaults(t *testing.T) {
	path := writeFile(t, "wikiform.yaml", `
endpoint: https://wiki.example.com/api.php
templates:
  - Custom Parameter list
output_dir: build
theme:
  name: carbide
  variant: dark
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "https://wiki.example.com/api.php" {
		t.Fatalf("endpoint not applied: %q", cfg.Endpoint)
	}
	if diff := cmp.Diff([]string{"Custom Parameter list"}, cfg.Templates); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
	if cfg.OutputDir != "build" {
		t.Fatalf("output dir not applied: %q", cfg.OutputDir)
	}
	if cfg.Renderer != "gpuiml" {
		t.Fatalf("renderer default lost: %q", cfg.Renderer)
	}
	if cfg.Theme.Name != "carbide" || cfg.Theme.Variant != "dark" {
		t.Fatalf("theme not applied: %+v", cfg.Theme)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "wikiform.json", `{"renderer": "gpuiml", "output_dir": "out"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Fatalf("output dir not applied: %q", cfg.OutputDir)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Fatalf("endpoint default lost: %q", cfg.Endpoint)
	}
}

func TestLoadMissingDefaultFallsBack(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestLoadRejectsInvalidContent(t *testing.T) {
	path := writeFile(t, "broken.yaml", "endpoint: [unclosed")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "invalid JSON or YAML") {
		t.Fatalf("expected parse error, got %v", err)
	}

	empty := writeFile(t, "empty.yaml", "   \n")
	if _, err := Load(empty); err == nil {
		t.Fatalf("expected empty file rejection")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad endpoint", mutate: func(c *Config) { c.Endpoint = "not a url" }},
		{name: "bad scheme", mutate: func(c *Config) { c.Endpoint = "ftp://wiki.example.com" }},
		{name: "no templates", mutate: func(c *Config) { c.Templates = nil }},
		{name: "blank template", mutate: func(c *Config) { c.Templates = []string{"  "} }},
		{name: "blank renderer", mutate: func(c *Config) { c.Renderer = " " }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
