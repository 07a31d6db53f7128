package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValueField is the reserved field name whose content is the Value variant
// rather than a plain text field.
const ValueField = "value"

// Field is one named text field of a record, in table column order.
type Field struct {
	Name string
	Text string
}

// Record is one normalized parameter row: ordered named fields plus the value
// variant. The first field identifies the parameter and doubles as the
// grouping key.
type Record struct {
	fields []Field
	value  Value
}

// Append adds a named field, preserving insertion order. Appending under the
// reserved value name routes to the scalar value instead, so builders can
// treat every column uniformly.
func (r *Record) Append(name, text string) {
	if name == ValueField {
		r.value = ScalarValue(text)
		return
	}
	r.fields = append(r.fields, Field{Name: name, Text: text})
}

// SetValue replaces the value variant.
func (r *Record) SetValue(v Value) {
	r.value = v
}

// Value returns the value variant.
func (r Record) Value() Value {
	return r.value
}

// Fields returns a copy of the named fields in order, value excluded.
func (r Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Get returns the text of the named field. The value field is not reachable
// here; use Value.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Text, true
		}
	}
	return "", false
}

// First returns the record's first field, the grouping identity.
func (r Record) First() (Field, bool) {
	if len(r.fields) == 0 {
		return Field{}, false
	}
	return r.fields[0], true
}

// Len returns the number of named fields, value excluded.
func (r Record) Len() int {
	return len(r.fields)
}

// Equal reports deep equality. go-cmp picks this up when diffing records.
func (r Record) Equal(other Record) bool {
	if len(r.fields) != len(other.fields) {
		return false
	}
	for i := range r.fields {
		if r.fields[i] != other.fields[i] {
			return false
		}
	}
	return r.value.Equal(other.value)
}

// MarshalJSON writes the named fields in order, then the value field last
// when present. Absent values produce no value key at all.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		text, err := json.Marshal(f.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(text)
	}
	if !r.value.IsAbsent() {
		if len(r.fields) > 0 {
			buf.WriteByte(',')
		}
		encoded, err := json.Marshal(r.value)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", ValueField)
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
