package model

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-wikiform/pkg/pipeline"
)

// Table is the normalized form of one wikitext table: its records in row
// order.
type Table []Record

// Section is one named unit of the normalized document, holding the tables
// that appeared under its heading.
type Section struct {
	Title  string
	Tables []Table
}

// Document maps section titles to their tables, preserving input order. It is
// the shape persisted in the normalized artifacts and consumed by renderers.
type Document struct {
	Sections []Section
}

// Section returns the named section when present.
func (d Document) Section(title string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// MergeDocuments concatenates documents in order into one. Sections sharing a
// title coalesce by appending their tables; section order follows first
// appearance. Inputs are not mutated.
func MergeDocuments(docs ...Document) Document {
	var merged Document
	for _, doc := range docs {
		for _, section := range doc.Sections {
			merged.appendSection(section)
		}
	}
	return merged
}

func (d *Document) appendSection(section Section) {
	for i := range d.Sections {
		if d.Sections[i].Title == section.Title {
			d.Sections[i].Tables = append(d.Sections[i].Tables, section.Tables...)
			return
		}
	}
	d.Sections = append(d.Sections, Section{
		Title:  section.Title,
		Tables: append([]Table(nil), section.Tables...),
	})
}

// MarshalJSON writes an object keyed by section title in section order. Each
// title maps to an array of tables, each table an array of records.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, section := range d.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		title, err := json.Marshal(section.Title)
		if err != nil {
			return nil, err
		}
		buf.Write(title)
		buf.WriteByte(':')
		buf.WriteByte('[')
		for j, table := range section.Tables {
			if j > 0 {
				buf.WriteByte(',')
			}
			encoded, err := json.Marshal([]Record(table))
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeDocument restores a Document from its JSON artifact. Key order in the
// file decides section order and record field order, which is why this walks
// the raw document instead of decoding into maps.
func DecodeDocument(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, pipeline.NewParseError("normalized document is not valid JSON", nil)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Document{}, pipeline.NewParseError("normalized document is not a JSON object", nil)
	}

	var (
		doc     Document
		walkErr error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			walkErr = pipeline.NewParseError("section "+key.String()+" is not an array of tables", nil)
			return false
		}
		section := Section{Title: key.String()}
		value.ForEach(func(_, rawTable gjson.Result) bool {
			if !rawTable.IsArray() {
				walkErr = pipeline.NewParseError("section "+key.String()+" holds a non-array table", nil)
				return false
			}
			var table Table
			rawTable.ForEach(func(_, rawRecord gjson.Result) bool {
				record, err := decodeRecord(rawRecord)
				if err != nil {
					walkErr = err
					return false
				}
				table = append(table, record)
				return true
			})
			if walkErr != nil {
				return false
			}
			section.Tables = append(section.Tables, table)
			return true
		})
		if walkErr != nil {
			return false
		}
		doc.Sections = append(doc.Sections, section)
		return true
	})
	if walkErr != nil {
		return Document{}, walkErr
	}
	return doc, nil
}

func decodeRecord(raw gjson.Result) (Record, error) {
	if !raw.IsObject() {
		return Record{}, pipeline.NewParseError("record is not a JSON object", nil)
	}
	var record Record
	raw.ForEach(func(key, value gjson.Result) bool {
		if key.String() == ValueField {
			if value.IsArray() {
				var items []string
				value.ForEach(func(_, item gjson.Result) bool {
					items = append(items, item.String())
					return true
				})
				record.SetValue(ListValue(items...))
			} else {
				record.SetValue(ScalarValue(value.String()))
			}
			return true
		}
		record.fields = append(record.fields, Field{Name: key.String(), Text: value.String()})
		return true
	})
	return record, nil
}
