package wikitext

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-wikiform/pkg/pipeline"
)

const paramListWikitext = `Intro prose that the parser ignores.

{|
|-
| 100 || First rule || before any heading
|}

== System parameters ==
Some description here.

{| class="wikitable"
|-
! Parameter ID !! Parameter name !! Value !! Parameter type
|-
| 102
| [[Sleep mode|Sleep]]
| 0 – Disable
| Uint8
|-
| 102 || Sleep || 1 – GPS Sleep || Uint8
|}

== Empty section ==
Nothing but prose.

== SMS settings ==
{|
|-
| style="background:#dedede;" | 3000 || SMS login || <span style="color:red">empty</span> || Char
|}
`

func TestParseSectionsAndTables(t *testing.T) {
	doc, err := Parse([]byte(paramListWikitext))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}

	if doc.Sections[0].Title != "" {
		t.Fatalf("expected synthetic untitled section first, got %q", doc.Sections[0].Title)
	}
	if got := doc.Sections[0].Tables[0].Rows[0].Cells[0].Text; got != "100" {
		t.Fatalf("unexpected pre-heading cell: %q", got)
	}

	system := doc.Sections[1]
	if system.Title != "System parameters" || system.Level != 2 {
		t.Fatalf("unexpected section: %+v", system)
	}
	if len(system.Tables) != 1 {
		t.Fatalf("expected 1 table in system section, got %d", len(system.Tables))
	}

	rows := system.Tables[0].Rows
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	wantHeader := []Cell{
		{Text: "Parameter ID", Header: true},
		{Text: "Parameter name", Header: true},
		{Text: "Value", Header: true},
		{Text: "Parameter type", Header: true},
	}
	if diff := cmp.Diff(wantHeader, rows[0].Cells); diff != "" {
		t.Fatalf("header row mismatch (-want +got):\n%s", diff)
	}
	wantData := []Cell{
		{Text: "102"},
		{Text: "Sleep"},
		{Text: "0 – Disable"},
		{Text: "Uint8"},
	}
	if diff := cmp.Diff(wantData, rows[1].Cells); diff != "" {
		t.Fatalf("data row mismatch (-want +got):\n%s", diff)
	}

	if got := doc.Sections[2].Title; got != "SMS settings" {
		t.Fatalf("expected prose-only section dropped, got %q in its place", got)
	}
}

func TestParseKeepsCellAttributesAndPositions(t *testing.T) {
	doc, err := Parse([]byte(paramListWikitext))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	sms := doc.Sections[2].Tables[0].Rows[0]
	if len(sms.Cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(sms.Cells))
	}
	if sms.Cells[0].Attrs != `style="background:#dedede;"` {
		t.Fatalf("attribute prefix lost: %q", sms.Cells[0].Attrs)
	}
	if sms.Cells[0].Text != "3000" {
		t.Fatalf("cell content lost behind attributes: %q", sms.Cells[0].Text)
	}
	if sms.Cells[2].Text != "empty" {
		t.Fatalf("inline HTML in cell not stripped: %q", sms.Cells[2].Text)
	}
}

func TestParseKeepsEmptyCells(t *testing.T) {
	src := `{|
|-
| || second || third
|}`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cells := doc.Sections[0].Tables[0].Rows[0].Cells
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells including the empty first, got %d", len(cells))
	}
	if cells[0].Text != "" || cells[1].Text != "second" {
		t.Fatalf("cell positions shifted: %+v", cells)
	}
}

func TestParseJoinsContinuationLines(t *testing.T) {
	src := `{|
|-
| 110 || Long description
that spans two lines
| Uint8
|}`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cells := doc.Sections[0].Tables[0].Rows[0].Cells
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	if cells[1].Text != "Long description that spans two lines" {
		t.Fatalf("continuation not joined: %q", cells[1].Text)
	}
	if cells[2].Text != "Uint8" {
		t.Fatalf("cell after continuation lost: %q", cells[2].Text)
	}
}

func TestParseFlushesUnterminatedTable(t *testing.T) {
	src := `== Tail ==
{|
|-
| 1 || one`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Sections) != 1 || len(doc.Sections[0].Tables) != 1 {
		t.Fatalf("unterminated table dropped: %+v", doc)
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse([]byte("   \n\t"))
	if err == nil {
		t.Fatalf("expected error for empty input")
	}
	if !pipeline.IsParse(err) {
		t.Fatalf("expected parse error, got %T: %v", err, err)
	}
}

func TestSplitCellsRespectsNesting(t *testing.T) {
	parts := splitCells(` {{pipe|inside}} || [[link|label]] || plain `, "||")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %q", len(parts), parts)
	}
}

func TestSplitCellAttributeDetection(t *testing.T) {
	cases := []struct {
		name        string
		in          string
		wantAttrs   string
		wantContent string
	}{
		{
			name:        "style prefix",
			in:          ` style="color:red" | 42`,
			wantAttrs:   `style="color:red"`,
			wantContent: " 42",
		},
		{
			name:        "no attributes",
			in:          " plain text",
			wantAttrs:   "",
			wantContent: " plain text",
		},
		{
			name:        "pipe without attribute prefix",
			in:          " a | b",
			wantAttrs:   "",
			wantContent: " a | b",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attrs, content := splitCell(tc.in)
			if attrs != tc.wantAttrs || content != tc.wantContent {
				t.Fatalf("splitCell(%q) = %q, %q; want %q, %q",
					tc.in, attrs, content, tc.wantAttrs, tc.wantContent)
			}
		})
	}
}

func TestHeadingDetection(t *testing.T) {
	cases := []struct {
		line      string
		wantLevel int
		wantTitle string
		wantOK    bool
	}{
		{line: "== System parameters ==", wantLevel: 2, wantTitle: "System parameters", wantOK: true},
		{line: "=== [[GPRS]] settings ===", wantLevel: 3, wantTitle: "GPRS settings", wantOK: true},
		{line: "= single =", wantOK: false},
		{line: "====", wantOK: false},
		{line: "plain line", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			level, title, ok := heading(tc.line)
			if ok != tc.wantOK {
				t.Fatalf("heading(%q) ok = %v, want %v", tc.line, ok, tc.wantOK)
			}
			if ok && (level != tc.wantLevel || title != tc.wantTitle) {
				t.Fatalf("heading(%q) = %d, %q; want %d, %q",
					tc.line, level, title, tc.wantLevel, tc.wantTitle)
			}
		})
	}
}
