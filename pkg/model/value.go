// Package model defines the normalized parameter records that sit between
// the normalizer and the renderers: ordered flat records whose value field is
// a tagged variant, grouped into tables under section titles. JSON marshaling
// preserves field and section order so the on-disk artifacts are stable.
package model

import "encoding/json"

// ValueKind tags the three shapes a record's value field can take.
type ValueKind int

const (
	// ValueAbsent means the record carries no value field at all.
	ValueAbsent ValueKind = iota
	// ValueScalar is a single text value.
	ValueScalar
	// ValueList is an ordered sequence of values from a merged group.
	ValueList
)

// Value is the value field of a record: absent, one scalar, or an ordered
// list. The zero Value is absent.
type Value struct {
	kind   ValueKind
	scalar string
	list   []string
}

// AbsentValue returns the absent variant.
func AbsentValue() Value {
	return Value{}
}

// ScalarValue returns a scalar variant holding text.
func ScalarValue(text string) Value {
	return Value{kind: ValueScalar, scalar: text}
}

// ListValue returns a list variant holding items in order.
func ListValue(items ...string) Value {
	clone := append([]string(nil), items...)
	return Value{kind: ValueList, list: clone}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether the value field is missing entirely.
func (v Value) IsAbsent() bool {
	return v.kind == ValueAbsent
}

// Scalar returns the scalar text and whether the value is the scalar variant.
func (v Value) Scalar() (string, bool) {
	return v.scalar, v.kind == ValueScalar
}

// List returns a copy of the items and whether the value is the list variant.
func (v Value) List() ([]string, bool) {
	if v.kind != ValueList {
		return nil, false
	}
	return append([]string(nil), v.list...), true
}

// Equal reports deep equality. go-cmp picks this up when diffing records.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueScalar:
		return v.scalar == other.scalar
	case ValueList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON encodes the scalar as a JSON string and the list as a JSON
// array. Absent values must be skipped by the caller; encoding one is a
// contract violation and marshals as null to make the bug visible.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueScalar:
		return json.Marshal(v.scalar)
	case ValueList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}
