// Package artifacts handles file naming and persistence for the pipeline's
// intermediate JSON documents. Every stage communicates with the next through
// these files, so names stay stable across runs.
package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-wikiform/pkg/model"
	"github.com/goliatone/go-wikiform/pkg/wikitext"
)

// Fixed artifact names. RendererInputName differs from NormalizedName on
// purpose: the downstream GUI consumes the FMBFAMILY file by that exact name,
// so both spellings stay until the interface owner unifies them.
const (
	NormalizedName    = "finalTables.json"
	RendererInputName = "FMBFAMILY-FINAL.json"
	OpenAPIName       = "openapi.json"
)

// Store persists pipeline artifacts as indented JSON under a single directory.
type Store struct {
	Dir string
}

// New creates a Store targeting the given directory. If dir is empty, it
// defaults to the current working directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("artifacts: getting working directory: %w", err)
		}
		dir = wd
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("artifacts: creating output directory: %w", err)
	}

	return &Store{Dir: dir}, nil
}

// RawDocumentName maps a wiki template name to its artifact filename.
func RawDocumentName(template string) string {
	return sanitize(template) + ".json"
}

// WriteRawDocument persists a parsed wikitext document under the template's
// sanitized name.
func (s *Store) WriteRawDocument(template string, doc wikitext.Document) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("artifacts: template name is required")
	}
	return s.writeJSON(RawDocumentName(template), doc)
}

// ReadRawDocument loads a previously written parsed wikitext document.
func (s *Store) ReadRawDocument(template string) (wikitext.Document, error) {
	path := filepath.Join(s.Dir, RawDocumentName(template))
	data, err := os.ReadFile(path)
	if err != nil {
		return wikitext.Document{}, fmt.Errorf("artifacts: reading %s: %w", path, err)
	}
	var doc wikitext.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return wikitext.Document{}, fmt.Errorf("artifacts: decoding %s: %w", path, err)
	}
	return doc, nil
}

// WriteNormalized persists the normalizer's output.
func (s *Store) WriteNormalized(doc model.Document) (string, error) {
	return s.writeJSON(NormalizedName, doc)
}

// ReadNormalized loads the normalizer's output.
func (s *Store) ReadNormalized() (model.Document, error) {
	return s.readDocument(NormalizedName)
}

// WriteRendererInput persists the document under the renderer's legacy name.
func (s *Store) WriteRendererInput(doc model.Document) (string, error) {
	return s.writeJSON(RendererInputName, doc)
}

// ReadRendererInput loads the document the renderer consumes.
func (s *Store) ReadRendererInput() (model.Document, error) {
	return s.readDocument(RendererInputName)
}

// WriteOpenAPI persists an already-marshaled OpenAPI document.
func (s *Store) WriteOpenAPI(payload []byte) (string, error) {
	path := filepath.Join(s.Dir, OpenAPIName)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("artifacts: writing file %s: %w", path, err)
	}
	return path, nil
}

func (s *Store) readDocument(name string) (model.Document, error) {
	path := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("artifacts: reading %s: %w", path, err)
	}
	doc, err := model.DecodeDocument(data)
	if err != nil {
		return model.Document{}, fmt.Errorf("artifacts: decoding %s: %w", path, err)
	}
	return doc, nil
}

func (s *Store) writeJSON(name string, v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("artifacts: marshaling %s: %w", name, err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, payload, "", "  "); err != nil {
		return "", fmt.Errorf("artifacts: indenting %s: %w", name, err)
	}
	indented.WriteByte('\n')

	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, indented.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("artifacts: writing file %s: %w", path, err)
	}
	return path, nil
}

// sanitize replaces non-alphanumeric characters with underscores so template
// names become portable filenames.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
