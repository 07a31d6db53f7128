// Package normalize reshapes parsed wikitext tables into the flat record
// schema. Header resolution, flattening and grouping are pure per-table
// functions composed by Normalize; nothing carries over between tables, so a
// malformed table cannot poison its neighbours with stale state.
package normalize

import (
	"fmt"

	"github.com/goliatone/go-wikiform/pkg/model"
	"github.com/goliatone/go-wikiform/pkg/pipeline"
	"github.com/goliatone/go-wikiform/pkg/wikitext"
)

// header is a resolved column plan: field names by position and the index of
// the first data row.
type header struct {
	fields    []string
	dataStart int
}

// Normalize converts a parsed document into the normalized record document,
// preserving section and table order. Malformed shape fails fast with a
// pipeline.SchemaError; no partial output is returned.
func Normalize(doc wikitext.Document) (model.Document, error) {
	if len(doc.Sections) == 0 {
		return model.Document{}, pipeline.NewSchemaError("", -1, "document has no sections")
	}

	out := model.Document{Sections: make([]model.Section, 0, len(doc.Sections))}
	for _, section := range doc.Sections {
		if len(section.Tables) == 0 {
			return model.Document{}, pipeline.NewSchemaError(section.Title, -1, "section has no tables")
		}
		normalized := model.Section{
			Title:  section.Title,
			Tables: make([]model.Table, 0, len(section.Tables)),
		}
		for i, table := range section.Tables {
			records, err := NormalizeTable(section.Title, i, table)
			if err != nil {
				return model.Document{}, err
			}
			normalized.Tables = append(normalized.Tables, records)
		}
		out.Sections = append(out.Sections, normalized)
	}
	return out, nil
}

// NormalizeTable resolves one table's header, flattens its data rows and
// merges grouped duplicates. sectionTitle and tableIndex only feed error
// context.
func NormalizeTable(sectionTitle string, tableIndex int, table wikitext.Table) (model.Table, error) {
	plan, err := resolveHeader(sectionTitle, tableIndex, table)
	if err != nil {
		return nil, err
	}

	flat := flatten(table, plan)
	if len(flat) == 0 {
		return nil, pipeline.NewSchemaError(sectionTitle, tableIndex, "table produced no records")
	}
	return group(flat), nil
}

// resolveHeader applies the three-way header rule, in order:
//  1. first and second rows share their first-column text: the second row is
//     the real header under a spanning label, data starts at row 2
//  2. the first row has a first-column value: it is the header, data starts
//     at row 1
//  3. no usable first-column value: field names come from the column keys,
//     data starts at row 0
func resolveHeader(sectionTitle string, tableIndex int, table wikitext.Table) (header, error) {
	if len(table.Rows) == 0 {
		return header{}, pipeline.NewSchemaError(sectionTitle, tableIndex, "table has no rows")
	}

	first := table.Rows[0].First()
	switch {
	case first != "" && len(table.Rows) > 1 && first == table.Rows[1].First():
		fields, err := headerFields(sectionTitle, tableIndex, table.Rows[1])
		if err != nil {
			return header{}, err
		}
		return header{fields: fields, dataStart: 2}, nil
	case first != "":
		fields, err := headerFields(sectionTitle, tableIndex, table.Rows[0])
		if err != nil {
			return header{}, err
		}
		return header{fields: fields, dataStart: 1}, nil
	default:
		width := 0
		for _, row := range table.Rows {
			if len(row.Cells) > width {
				width = len(row.Cells)
			}
		}
		fields := make([]string, width)
		for i := range fields {
			fields[i] = columnKey(i)
		}
		return header{fields: fields, dataStart: 0}, nil
	}
}

// headerFields tokenizes one header row. Header cells with no usable text
// fall back to their column key; duplicate tokens are rejected rather than
// silently overwriting a column.
func headerFields(sectionTitle string, tableIndex int, row wikitext.Row) ([]string, error) {
	fields := make([]string, 0, len(row.Cells))
	seen := make(map[string]struct{}, len(row.Cells))
	for i, cell := range row.Cells {
		token := snakeCase(cell.Text)
		if token == "" {
			token = columnKey(i)
		}
		if _, dup := seen[token]; dup {
			return nil, pipeline.NewSchemaError(sectionTitle, tableIndex,
				fmt.Sprintf("duplicate header token %q", token))
		}
		seen[token] = struct{}{}
		fields = append(fields, token)
	}
	return fields, nil
}

// flatten substitutes header names into the data rows. Rows without a
// first-column value are stray separators and are skipped.
func flatten(table wikitext.Table, plan header) []model.Record {
	var records []model.Record
	for i := plan.dataStart; i < len(table.Rows); i++ {
		row := table.Rows[i]
		if row.First() == "" {
			continue
		}
		var record model.Record
		for j, cell := range row.Cells {
			record.Append(fieldName(plan, j), cell.Text)
		}
		records = append(records, record)
	}
	return records
}

func fieldName(plan header, column int) string {
	if column < len(plan.fields) {
		return plan.fields[column]
	}
	return columnKey(column)
}

func columnKey(index int) string {
	return fmt.Sprintf("col%d", index+1)
}

// group merges records sharing their first-field text, in order of first
// appearance. Groups of one pass through untouched, absent value included;
// larger groups take their named fields from the first member and collect
// every member's value in input order, an absent member value contributing
// the empty string.
func group(records []model.Record) model.Table {
	type bucket struct {
		members []model.Record
	}
	var (
		order   []string
		buckets = make(map[string]*bucket)
	)
	for _, record := range records {
		first, ok := record.First()
		if !ok {
			continue
		}
		b, exists := buckets[first.Text]
		if !exists {
			b = &bucket{}
			buckets[first.Text] = b
			order = append(order, first.Text)
		}
		b.members = append(b.members, record)
	}

	out := make(model.Table, 0, len(order))
	for _, key := range order {
		members := buckets[key].members
		if len(members) == 1 {
			out = append(out, members[0])
			continue
		}

		var merged model.Record
		for _, f := range members[0].Fields() {
			merged.Append(f.Name, f.Text)
		}
		values := make([]string, 0, len(members))
		for _, member := range members {
			text, _ := member.Value().Scalar()
			values = append(values, text)
		}
		merged.SetValue(model.ListValue(values...))
		out = append(out, merged)
	}
	return out
}
