// Package wikitext parses expanded MediaWiki markup into sections of tables.
// The parser is line based: headings open sections, {| opens a table, |-
// separates rows, ! and | open header and data cells. Cell text is cleaned of
// templates, links, markup quotes and stray HTML before it reaches the
// normalizer. Only table structure is parsed; prose between tables is
// discarded.
package wikitext

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-wikiform/pkg/pipeline"
)

// attrsPattern decides whether a cell prefix before the first pipe is an
// attribute run (style="...", colspan=2) rather than cell text.
var attrsPattern = regexp.MustCompile(`^[a-zA-Z-]+\s*=`)

// Parse converts expanded wikitext into a Document. Sections without tables
// are dropped; tables appearing before the first heading collect in a section
// with an empty title. An empty input is a parse error, a table-free input is
// not: that case is the normalizer's to reject.
func Parse(raw []byte) (Document, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Document{}, pipeline.NewParseError("empty wikitext", nil)
	}

	src := strings.ReplaceAll(string(raw), "\r\n", "\n")
	src = stripComments(src)

	var (
		doc     Document
		section = Section{}
		table   *Table
		row     *Row
	)

	flushRow := func() {
		if table != nil && row != nil && len(row.Cells) > 0 {
			table.Rows = append(table.Rows, *row)
		}
		row = nil
	}
	flushTable := func() {
		flushRow()
		if table != nil && len(table.Rows) > 0 {
			section.Tables = append(section.Tables, *table)
		}
		table = nil
	}
	flushSection := func() {
		flushTable()
		if len(section.Tables) > 0 {
			doc.Sections = append(doc.Sections, section)
		}
	}

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)

		if table == nil {
			if level, title, ok := heading(trimmed); ok {
				flushSection()
				section = Section{Title: title, Level: level}
				continue
			}
			if strings.HasPrefix(trimmed, "{|") {
				table = &Table{}
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "|}"):
			flushTable()
		case strings.HasPrefix(trimmed, "{|"):
			// Nested tables are not supported; restart with the inner one.
			flushTable()
			table = &Table{}
		case strings.HasPrefix(trimmed, "|+"):
			// Caption line, nothing the pipeline needs.
		case strings.HasPrefix(trimmed, "|-"):
			flushRow()
			row = &Row{}
		case strings.HasPrefix(trimmed, "!"):
			if row == nil {
				row = &Row{}
			}
			row.Cells = append(row.Cells, parseCells(trimmed[1:], "!!", true)...)
		case strings.HasPrefix(trimmed, "|"):
			if row == nil {
				row = &Row{}
			}
			row.Cells = append(row.Cells, parseCells(trimmed[1:], "||", false)...)
		default:
			// Continuation of the previous cell across lines.
			if row != nil && len(row.Cells) > 0 && trimmed != "" {
				last := &row.Cells[len(row.Cells)-1]
				extra := CleanText(trimmed)
				if extra != "" {
					if last.Text != "" {
						last.Text += " "
					}
					last.Text += extra
				}
			}
		}
	}
	flushSection()

	return doc, nil
}

// parseCells splits one marker line into cells. sep is the inline separator
// ("!!" for header lines, "||" for data lines). Empty cells are kept: column
// position carries meaning downstream.
func parseCells(content, sep string, header bool) []Cell {
	parts := splitCells(content, sep)
	cells := make([]Cell, 0, len(parts))
	for _, part := range parts {
		attrs, text := splitCell(part)
		cells = append(cells, Cell{
			Text:   CleanText(text),
			Attrs:  strings.TrimSpace(attrs),
			Header: header,
		})
	}
	return cells
}

// splitCells splits on the two-character inline separator while tracking
// {{template}} and [[link]] nesting so pipes inside them stay put.
func splitCells(text, sep string) []string {
	var (
		parts         []string
		current       strings.Builder
		templateDepth int
		linkDepth     int
	)

	i := 0
	for i < len(text) {
		rest := text[i:]
		switch {
		case strings.HasPrefix(rest, "{{"):
			templateDepth++
			current.WriteString("{{")
			i += 2
		case strings.HasPrefix(rest, "}}"):
			templateDepth--
			current.WriteString("}}")
			i += 2
		case strings.HasPrefix(rest, "[["):
			linkDepth++
			current.WriteString("[[")
			i += 2
		case strings.HasPrefix(rest, "]]"):
			linkDepth--
			current.WriteString("]]")
			i += 2
		case templateDepth == 0 && linkDepth == 0 && strings.HasPrefix(rest, sep):
			parts = append(parts, current.String())
			current.Reset()
			i += len(sep)
		default:
			current.WriteByte(text[i])
			i++
		}
	}
	parts = append(parts, current.String())
	return parts
}

// splitCell separates an attribute prefix from cell content at the first
// unnested pipe, but only when the prefix actually looks like attributes.
func splitCell(part string) (attrs, content string) {
	idx := unnestedPipe(part)
	if idx < 0 {
		return "", part
	}
	prefix := strings.TrimSpace(part[:idx])
	if !attrsPattern.MatchString(prefix) {
		return "", part
	}
	return prefix, part[idx+1:]
}

func unnestedPipe(text string) int {
	templateDepth, linkDepth := 0, 0
	i := 0
	for i < len(text) {
		rest := text[i:]
		switch {
		case strings.HasPrefix(rest, "{{"):
			templateDepth++
			i += 2
		case strings.HasPrefix(rest, "}}"):
			templateDepth--
			i += 2
		case strings.HasPrefix(rest, "[["):
			linkDepth++
			i += 2
		case strings.HasPrefix(rest, "]]"):
			linkDepth--
			i += 2
		case text[i] == '|' && templateDepth == 0 && linkDepth == 0:
			return i
		default:
			i++
		}
	}
	return -1
}

// heading reports whether the line is a == Title == heading and returns its
// level and cleaned title text.
func heading(line string) (int, string, bool) {
	if !strings.HasPrefix(line, "==") {
		return 0, "", false
	}
	left := 0
	for left < len(line) && line[left] == '=' {
		left++
	}
	right := 0
	for right < len(line)-left && line[len(line)-1-right] == '=' {
		right++
	}
	if right < 2 || left+right >= len(line) {
		return 0, "", false
	}
	level := left
	if right < level {
		level = right
	}
	title := CleanText(line[left : len(line)-right])
	if title == "" {
		return 0, "", false
	}
	return level, title, true
}
