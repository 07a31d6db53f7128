package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-wikiform/internal/artifacts"
	"github.com/goliatone/go-wikiform/pkg/export"
	"github.com/goliatone/go-wikiform/pkg/model"
	"github.com/goliatone/go-wikiform/pkg/normalize"
	"github.com/goliatone/go-wikiform/pkg/render"
	"github.com/goliatone/go-wikiform/pkg/renderers/gpuiml"
	"github.com/goliatone/go-wikiform/pkg/wiki"
	"github.com/goliatone/go-wikiform/pkg/wikitext"
)

const defaultRendererName = "gpuiml"

// Fetcher expands a named wiki template into raw wikitext. *wiki.Client is
// the production implementation; tests substitute stubs.
type Fetcher interface {
	ExpandTemplate(ctx context.Context, template string) (wiki.Document, error)
}

// ParseFunc turns raw wikitext into a structured document.
type ParseFunc func(raw []byte) (wikitext.Document, error)

// NormalizeFunc flattens a parsed document into renderer-ready records.
type NormalizeFunc func(doc wikitext.Document) (model.Document, error)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithFetcher injects the client used to expand templates.
func WithFetcher(fetcher Fetcher) Option {
	return func(o *Orchestrator) {
		o.fetcher = fetcher
	}
}

// WithEndpoint points the default wiki client at the given API endpoint.
// Ignored when WithFetcher supplies a client directly.
func WithEndpoint(endpoint string) Option {
	return func(o *Orchestrator) {
		o.endpoint = endpoint
	}
}

// WithParser injects a custom wikitext parser.
func WithParser(parse ParseFunc) Option {
	return func(o *Orchestrator) {
		o.parser = parse
	}
}

// WithNormalizer injects a custom normalizer.
func WithNormalizer(fn NormalizeFunc) Option {
	return func(o *Orchestrator) {
		o.normalizer = fn
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithArtifacts persists stage outputs through the given store. Without it
// the pipeline keeps everything in memory.
func WithArtifacts(store *artifacts.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithExporter injects a custom OpenAPI exporter.
func WithExporter(exporter *export.Exporter) Option {
	return func(o *Orchestrator) {
		o.exporter = exporter
	}
}

// Orchestrator coordinates the full pipeline from template name to rendered
// markup. It applies sensible defaults (gpuiml renderer, embedded templates,
// in-repo stages) while remaining open to dependency injection for advanced
// callers.
type Orchestrator struct {
	fetcher         Fetcher
	endpoint        string
	parser          ParseFunc
	normalizer      NormalizeFunc
	registry        *render.Registry
	defaultRenderer string
	store           *artifacts.Store
	exporter        *export.Exporter
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	defaultTheme    string
	defaultVariant  string
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render markup from wiki templates.
type Request struct {
	// Templates names the wiki templates to expand and merge, in order.
	// Optional when Documents is supplied.
	Templates []string

	// Documents allows callers to bypass the fetch stage when they already
	// hold expanded wikitext (offline runs, saved fixtures).
	Documents []wiki.Document

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select the theme resolved ahead of
	// rendering. Both fall back to the orchestrator defaults when empty.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request renderer instructions. A theme
	// already present here wins over selector resolution.
	RenderOptions render.RenderOptions
}

// Generate executes the fetch → parse → normalize → render sequence across
// every requested template and returns the rendered markup. Intermediate
// artifacts are written when a store is configured.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.ready(); err != nil {
		return nil, err
	}

	raws, err := o.resolveDocuments(ctx, req)
	if err != nil {
		return nil, err
	}

	parsed := make([]wikitext.Document, 0, len(raws))
	for _, raw := range raws {
		doc, err := o.parseDocument(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, doc)
	}

	normalized, err := o.Normalize(parsed...)
	if err != nil {
		return nil, err
	}

	return o.Render(ctx, normalized, req)
}

// Fetch expands one template and parses the result, writing the per-template
// artifact when a store is configured.
func (o *Orchestrator) Fetch(ctx context.Context, template string) (wikitext.Document, error) {
	if ctx == nil {
		return wikitext.Document{}, errors.New("orchestrator: context is required")
	}
	if err := o.ready(); err != nil {
		return wikitext.Document{}, err
	}
	if template == "" {
		return wikitext.Document{}, errors.New("orchestrator: template name is required")
	}
	if o.fetcher == nil {
		return wikitext.Document{}, errors.New("orchestrator: no fetcher configured, supply WithFetcher or WithEndpoint")
	}

	raw, err := o.fetcher.ExpandTemplate(ctx, template)
	if err != nil {
		return wikitext.Document{}, fmt.Errorf("orchestrator: expand template %q: %w", template, err)
	}
	return o.parseDocument(raw)
}

// Normalize flattens parsed documents into one normalized document, merging
// sections across templates in order. Both normalized artifacts are written
// when a store is configured.
func (o *Orchestrator) Normalize(docs ...wikitext.Document) (model.Document, error) {
	if err := o.ready(); err != nil {
		return model.Document{}, err
	}
	if len(docs) == 0 {
		return model.Document{}, errors.New("orchestrator: no documents to normalize")
	}

	flattened := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		flat, err := o.normalizer(doc)
		if err != nil {
			return model.Document{}, fmt.Errorf("orchestrator: normalize document: %w", err)
		}
		flattened = append(flattened, flat)
	}
	merged := model.MergeDocuments(flattened...)

	if o.store != nil {
		if _, err := o.store.WriteNormalized(merged); err != nil {
			return model.Document{}, fmt.Errorf("orchestrator: write normalized artifact: %w", err)
		}
		if _, err := o.store.WriteRendererInput(merged); err != nil {
			return model.Document{}, fmt.Errorf("orchestrator: write renderer input artifact: %w", err)
		}
	}
	return merged, nil
}

// Render resolves the theme and renderer named by the request, narrows the
// document to any requested sections, and renders it. Only the Renderer,
// ThemeName, ThemeVariant and RenderOptions request fields participate here.
func (o *Orchestrator) Render(ctx context.Context, doc model.Document, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := o.ready(); err != nil {
		return nil, err
	}

	if err := o.applyTheme(&req); err != nil {
		return nil, err
	}

	if !req.RenderOptions.Sections.Empty() {
		doc = render.ApplySections(doc, req.RenderOptions.Sections)
		if len(doc.Sections) == 0 {
			return nil, errors.New("orchestrator: no sections match the filter")
		}
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, doc, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Export projects the normalized document into an OpenAPI 3 payload, writing
// the openapi.json artifact when a store is configured.
func (o *Orchestrator) Export(ctx context.Context, doc model.Document) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := o.ready(); err != nil {
		return nil, err
	}

	payload, err := o.exporter.ExportJSON(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: export openapi: %w", err)
	}
	if o.store != nil {
		if _, err := o.store.WriteOpenAPI(payload); err != nil {
			return nil, fmt.Errorf("orchestrator: write openapi artifact: %w", err)
		}
	}
	return payload, nil
}

func (o *Orchestrator) resolveDocuments(ctx context.Context, req Request) ([]wiki.Document, error) {
	if len(req.Documents) > 0 {
		return req.Documents, nil
	}
	if len(req.Templates) == 0 {
		return nil, errors.New("orchestrator: templates or documents are required")
	}
	if o.fetcher == nil {
		return nil, errors.New("orchestrator: no fetcher configured, supply WithFetcher or WithEndpoint")
	}

	docs := make([]wiki.Document, 0, len(req.Templates))
	for _, template := range req.Templates {
		doc, err := o.fetcher.ExpandTemplate(ctx, template)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: expand template %q: %w", template, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// parseDocument runs the parser stage and persists the per-template artifact
// when the document's source names a template.
func (o *Orchestrator) parseDocument(raw wiki.Document) (wikitext.Document, error) {
	doc, err := o.parser(raw.Wikitext())
	if err != nil {
		return wikitext.Document{}, fmt.Errorf("orchestrator: parse %s: %w", raw.Location(), err)
	}
	if o.store != nil {
		if name := templateName(raw.Source()); name != "" {
			if _, err := o.store.WriteRawDocument(name, doc); err != nil {
				return wikitext.Document{}, fmt.Errorf("orchestrator: write raw artifact: %w", err)
			}
		}
	}
	return doc, nil
}

// templateName extracts the template behind a source when it carries one.
// File sources do not, so replays from disk skip the raw artifact write.
func templateName(src wiki.Source) string {
	if named, ok := src.(interface{ Template() string }); ok {
		return named.Template()
	}
	return ""
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Default()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

// ready applies defaults lazily for zero-value orchestrators and surfaces any
// initialisation failure.
func (o *Orchestrator) ready() error {
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.fetcher == nil && o.endpoint != "" {
		client, err := wiki.NewClient(o.endpoint)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default client: %w", err)
		} else {
			o.fetcher = client
		}
	}
	if o.parser == nil {
		o.parser = wikitext.Parse
	}
	if o.normalizer == nil {
		o.normalizer = normalize.Normalize
	}
	if o.exporter == nil {
		o.exporter = export.New()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := gpuiml.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.defaultsApplied = true
}
