// Package export converts normalized parameter documents into OpenAPI 3
// schema documents so downstream form tooling can consume the vendor catalog
// without understanding wikitext.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-wikiform/pkg/model"
)

const openAPIVersion = "3.0.3"

const (
	defaultTitle   = "Vendor parameter catalog"
	defaultVersion = "1.0.0"
)

type Option func(*Exporter)

// WithTitle overrides the info title of the generated document.
func WithTitle(title string) Option {
	return func(e *Exporter) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			e.title = trimmed
		}
	}
}

// WithVersion overrides the info version of the generated document.
func WithVersion(version string) Option {
	return func(e *Exporter) {
		if trimmed := strings.TrimSpace(version); trimmed != "" {
			e.version = trimmed
		}
	}
}

// Exporter maps sections to component schemas: every record becomes a
// property keyed by its identifier field, typed from the same value
// classification the markup renderer uses.
type Exporter struct {
	title   string
	version string
}

// New constructs an Exporter applying any provided options.
func New(options ...Option) *Exporter {
	exporter := &Exporter{
		title:   defaultTitle,
		version: defaultVersion,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(exporter)
	}
	return exporter
}

// Export builds and validates an OpenAPI document from a normalized document.
func (e *Exporter) Export(ctx context.Context, doc model.Document) (*openapi3.T, error) {
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("export: document has no sections")
	}

	spec := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:   e.title,
			Version: e.version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	for _, section := range doc.Sections {
		schema := openapi3.NewObjectSchema()
		schema.Description = section.Title
		for _, table := range section.Tables {
			for _, record := range table {
				first, ok := record.First()
				if !ok {
					continue
				}
				schema.WithProperty(first.Text, recordSchema(record))
			}
		}
		spec.Components.Schemas[schemaName(section.Title)] = openapi3.NewSchemaRef("", schema)
	}

	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("export: validate document: %w", err)
	}
	return spec, nil
}

// ExportJSON renders the generated document as indented JSON.
func (e *Exporter) ExportJSON(ctx context.Context, doc model.Document) ([]byte, error) {
	spec, err := e.Export(ctx, doc)
	if err != nil {
		return nil, err
	}
	payload, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal document: %w", err)
	}
	return payload, nil
}

func recordSchema(record model.Record) *openapi3.Schema {
	var schema *openapi3.Schema

	if items, ok := record.Value().List(); ok {
		if isTogglePair(items) {
			schema = openapi3.NewBoolSchema()
		} else {
			enum := make([]any, 0, len(items))
			for _, item := range items {
				enum = append(enum, item)
			}
			schema = openapi3.NewStringSchema().WithEnum(enum...)
		}
	} else if text, _ := record.Get("parameter_type"); text == "Char" {
		schema = openapi3.NewStringSchema()
		if scalar, ok := record.Value().Scalar(); ok {
			schema.WithDefault(scalar)
		}
	} else {
		schema = openapi3.NewFloat64Schema()
		if bound, ok := numericField(record, "min"); ok {
			schema.WithMin(bound)
		}
		if bound, ok := numericField(record, "max"); ok {
			schema.WithMax(bound)
		}
		if scalar, ok := record.Value().Scalar(); ok {
			if number, err := strconv.ParseFloat(scalar, 64); err == nil {
				schema.WithDefault(number)
			}
		}
	}

	if name, ok := record.Get("parameter_name"); ok && schema.Description == "" {
		schema.Description = name
	}
	return schema
}

func numericField(record model.Record, name string) (float64, bool) {
	text, ok := record.Get(name)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// isTogglePair mirrors the renderer's enable/disable detection so boolean
// parameters stay booleans across both outputs.
func isTogglePair(items []string) bool {
	if len(items) != 2 {
		return false
	}
	return matchesToggle(items[0], "0", "Disable") && matchesToggle(items[1], "1", "Enable")
}

func matchesToggle(item, code, label string) bool {
	return item == code+" – "+label || item == code+" - "+label
}

// schemaName adapts a section title to the component-name character set.
func schemaName(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
