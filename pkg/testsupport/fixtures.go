package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-wikiform/pkg/model"
	"github.com/goliatone/go-wikiform/pkg/wikitext"
)

// MustParseWikitext parses raw wikitext into a section document. Testing
// helpers fail the test on error to keep contract tests concise.
func MustParseWikitext(t *testing.T, raw string) wikitext.Document {
	t.Helper()

	doc, err := wikitext.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse wikitext: %v", err)
	}
	return doc
}

// MustLoadDocument loads a normalized-document JSON fixture.
func MustLoadDocument(t *testing.T, path string) pkgmodel.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadDocumentFromPath(path string) (pkgmodel.Document, error) {
	if path == "" {
		return pkgmodel.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgmodel.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgmodel.DecodeDocument(data)
	if err != nil {
		return pkgmodel.Document{}, fmt.Errorf("testsupport: decode document: %w", err)
	}
	return doc, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
