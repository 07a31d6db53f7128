package wiki

import (
	"errors"
	"os"
)

// Document wraps expanded wikitext together with its origin. Keeping the raw
// text behind accessors with defensive copies means no stage can mutate
// another stage's input.
type Document struct {
	source   Source
	wikitext []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, wikitext []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("wiki: source is required")
	}
	if len(wikitext) == 0 {
		return Document{}, errors.New("wiki: wikitext is empty")
	}

	clone := append([]byte(nil), wikitext...)
	return Document{source: src, wikitext: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, wikitext []byte) Document {
	doc, err := NewDocument(src, wikitext)
	if err != nil {
		panic(err)
	}
	return doc
}

// DocumentFromFile reads wikitext from disk and wraps it with a file source.
func DocumentFromFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return NewDocument(SourceFromFile(path), raw)
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Wikitext returns a defensive copy of the expanded wikitext.
func (d Document) Wikitext() []byte {
	return append([]byte(nil), d.wikitext...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
