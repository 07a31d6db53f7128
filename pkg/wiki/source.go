package wiki

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where a wikitext document originated so later stages can
// report provenance without caring whether the text came over HTTP or from a
// saved file.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the supported origins.
type SourceKind string

const (
	SourceKindURL  SourceKind = "url"
	SourceKindFile SourceKind = "file"
)

// templateSource references a template expansion against a wiki API endpoint.
type templateSource struct {
	endpoint string
	template string
}

func (s templateSource) Kind() SourceKind {
	return SourceKindURL
}

func (s templateSource) Location() string {
	return ExpandURL(s.endpoint, s.template)
}

// Template returns the template name this source expands.
func (s templateSource) Template() string {
	return s.template
}

// SourceFromTemplate returns a Source for a server-side template expansion. It
// panics if the endpoint is not a valid HTTP URL to surface configuration
// mistakes early.
func SourceFromTemplate(endpoint, template string) Source {
	if endpoint == "" {
		panic("wiki: empty endpoint")
	}
	if template == "" {
		panic("wiki: empty template name")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		panic(fmt.Sprintf("wiki: invalid endpoint %q: %v", endpoint, err))
	}
	return templateSource{endpoint: endpoint, template: template}
}

// fileSource identifies on-disk wikitext, used for offline runs and tests.
type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

func (s fileSource) Location() string {
	return s.path
}

// SourceFromFile returns a Source pointing to a wikitext file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// ExpandURL builds the expandtemplates request URL for a template name. The
// text parameter wraps the name in transclusion braces so the server expands
// the template rather than echoing its name.
func ExpandURL(endpoint, template string) string {
	values := url.Values{}
	values.Set("action", "expandtemplates")
	values.Set("text", "{{"+template+"}}")
	values.Set("prop", "wikitext")
	values.Set("format", "json")
	return endpoint + "?" + values.Encode()
}
