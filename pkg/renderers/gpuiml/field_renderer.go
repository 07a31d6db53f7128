package gpuiml

import (
	"strings"

	"github.com/goliatone/go-wikiform/pkg/model"
)

// Input type names emitted into the markup.
const (
	inputCheckbox = "checkbox"
	inputSelect   = "select"
	inputText     = "text"
	inputNumber   = "number"
)

const parameterTypeField = "parameter_type"

// charParameterType marks free-form character parameters in the vendor docs.
const charParameterType = "Char"

// renderInput builds one self-closing input element for a normalized record.
// Scalar records copy every field including the value, list records copy the
// remaining fields and fold the value into an options attribute unless the
// list is the literal enable/disable toggle pair.
func renderInput(record model.Record) string {
	kind, options := classify(record)

	var attrs strings.Builder
	for _, field := range record.Fields() {
		writeAttr(&attrs, field.Name, field.Text)
	}
	switch kind {
	case inputSelect:
		writeAttr(&attrs, "options", options)
	case inputText, inputNumber:
		if scalar, ok := record.Value().Scalar(); ok {
			writeAttr(&attrs, model.ValueField, scalar)
		}
	}

	return `    <input type="` + kind + `"` + collapseDashes(attrs.String()) + "/>"
}

func classify(record model.Record) (kind string, options string) {
	if items, ok := record.Value().List(); ok {
		if isTogglePair(items) {
			return inputCheckbox, ""
		}
		return inputSelect, strings.Join(items, ",")
	}
	if text, _ := record.Get(parameterTypeField); text == charParameterType {
		return inputText, ""
	}
	return inputNumber, ""
}

// isTogglePair recognises the vendor's two-entry enable/disable lists, in
// both the en-dash form the wiki uses and the plain-hyphen variant.
func isTogglePair(items []string) bool {
	if len(items) != 2 {
		return false
	}
	return matchesToggle(items[0], "0", "Disable") && matchesToggle(items[1], "1", "Enable")
}

func matchesToggle(item, code, label string) bool {
	return item == code+" – "+label || item == code+" - "+label
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(escapeAttr(value))
	b.WriteByte('"')
}

// escapeAttr covers the two characters that can break out of a double-quoted
// attribute in this markup dialect. Everything else passes through untouched.
func escapeAttr(value string) string {
	value = strings.ReplaceAll(value, `"`, "&quot;")
	return strings.ReplaceAll(value, "<", "&lt;")
}

// collapseDashes rewrites the label/value separators the vendor docs use
// (" – " and " - ") into a single colon once the attribute string is built.
func collapseDashes(attrs string) string {
	attrs = strings.ReplaceAll(attrs, " – ", ":")
	return strings.ReplaceAll(attrs, " - ", ":")
}

func renderTable(table model.Table, bg string) string {
	var b strings.Builder
	b.WriteString(`  <div bg="` + bg + `">` + "\n")
	for _, record := range table {
		b.WriteString(renderInput(record))
		b.WriteByte('\n')
	}
	b.WriteString("  </div>\n")
	return b.String()
}

func renderSectionBody(section model.Section, bg string) string {
	var b strings.Builder
	for _, table := range section.Tables {
		b.WriteString(renderTable(table, bg))
	}
	return b.String()
}
