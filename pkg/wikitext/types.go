package wikitext

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Document is the parsed form of one expanded template: the ordered sections
// that contained at least one table.
type Document struct {
	Sections []Section `json:"sections"`
}

// Section groups the tables that appeared under one heading. Tables above the
// first heading land in a section with an empty title.
type Section struct {
	Title  string  `json:"title"`
	Level  int     `json:"level,omitempty"`
	Tables []Table `json:"tables"`
}

// Table is an ordered sequence of rows. It marshals as a bare JSON array so
// the artifact mirrors the raw-table shape: rows keyed col1, col2, ... in
// column order.
type Table struct {
	Rows []Row
}

// Row is an ordered sequence of cells. Position is meaningful: the first cell
// is the first column even when its text is empty.
type Row struct {
	Cells []Cell
}

// Cell carries the cleaned text of one table cell plus the raw attribute
// prefix (style, spans) that preceded it in the wikitext.
type Cell struct {
	Text   string `json:"text"`
	Attrs  string `json:"attributes,omitempty"`
	Header bool   `json:"header,omitempty"`
}

// First returns the text of the row's first column, empty when the row has no
// cells.
func (r Row) First() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return r.Cells[0].Text
}

func (t Table) MarshalJSON() ([]byte, error) {
	if t.Rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Rows)
}

func (t *Table) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.Rows)
}

// MarshalJSON writes the row as an object keyed col1..colN in cell order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cell := range r.Cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", fmt.Sprintf("col%d", i+1))
		encoded, err := json.Marshal(cell)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores cells in the key order of the document, so saved
// artifacts round-trip without losing column positions.
func (r *Row) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("wikitext: invalid row JSON")
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return fmt.Errorf("wikitext: row JSON is not an object")
	}

	r.Cells = nil
	parsed.ForEach(func(_, value gjson.Result) bool {
		cell := Cell{
			Text:   value.Get("text").String(),
			Attrs:  value.Get("attributes").String(),
			Header: value.Get("header").Bool(),
		}
		r.Cells = append(r.Cells, cell)
		return true
	})
	return nil
}
