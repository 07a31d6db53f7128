package gpuiml

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-wikiform/pkg/model"
	"github.com/goliatone/go-wikiform/pkg/render"
	rendertemplate "github.com/goliatone/go-wikiform/pkg/render/template"
	gotemplate "github.com/goliatone/go-wikiform/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer emits gpuiml markup: one outer container per section, one inner
// container per table, one self-closing input element per record.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// Ensure the renderer satisfies the registry contract.
var _ render.Renderer = (*Renderer)(nil)

// Theme token keys looked up in the resolved theme configuration.
const (
	sectionBackgroundToken = "section-bg"
	tableBackgroundToken   = "table-bg"
)

// Fallback colors applied when no theme is configured.
const (
	defaultSectionBackground = "#202124"
	defaultTableBackground   = "#2b2d30"
)

// documentPartial is the theme partial key that can point the document shell
// at an alternate template path.
const documentPartial = "gpuiml.document"

// defaultDocumentTemplate is the embedded document shell.
const defaultDocumentTemplate = "templates/document.tmpl"

// New constructs the gpuiml renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("gpuiml renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "gpuiml"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, doc model.Document, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("gpuiml renderer: template renderer is nil")
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("gpuiml renderer: document has no sections")
	}

	sectionBG := themeToken(options.Theme, sectionBackgroundToken, defaultSectionBackground)
	tableBG := themeToken(options.Theme, tableBackgroundToken, defaultTableBackground)

	sections := make([]map[string]any, 0, len(doc.Sections))
	for _, section := range doc.Sections {
		sections = append(sections, map[string]any{
			"title_attr": escapeAttr(section.Title),
			"bg":         sectionBG,
			"body":       renderSectionBody(section, tableBG),
		})
	}

	result, err := r.templates.RenderTemplate(documentTemplate(options.Theme), map[string]any{
		"sections": sections,
	})
	if err != nil {
		return nil, fmt.Errorf("gpuiml renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func documentTemplate(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return defaultDocumentTemplate
	}
	if path, ok := cfg.Partials[documentPartial]; ok && path != "" {
		return path
	}
	return defaultDocumentTemplate
}

func themeToken(cfg *theme.RendererConfig, key, fallback string) string {
	if cfg == nil {
		return fallback
	}
	if value, ok := cfg.Tokens[key]; ok && value != "" {
		return value
	}
	return fallback
}
