// Package pipeline defines the shared vocabulary of the fetch → parse →
// normalize → render pipeline: stage names and the typed errors every stage
// reports. Callers match on error kind with errors.As or the Is* predicates
// instead of string inspection.
package pipeline

import (
	"errors"
	"fmt"
)

// Stage identifies one step of the pipeline for logging and error context.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageParse     Stage = "parse"
	StageNormalize Stage = "normalize"
	StageRender    Stage = "render"
	StageExport    Stage = "export"
)

// NetworkError reports a failed request against the wiki API: transport
// failures, non-2xx statuses, or unreadable response bodies.
type NetworkError struct {
	// Op names the failing operation, e.g. "expandtemplates".
	Op string
	// URL is the request URL, when one was built.
	URL string
	// Err is the underlying cause.
	Err error
}

func NewNetworkError(op, url string, err error) *NetworkError {
	return &NetworkError{Op: op, URL: url, Err: err}
}

func (e *NetworkError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("network: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("network: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports input that could not be decoded: response JSON missing
// expected fields, malformed wikitext tables, or unreadable artifacts.
type ParseError struct {
	// Op names the failing operation, e.g. "expandtemplates response".
	Op string
	// Err is the underlying cause, nil when Op carries the whole story.
	Err error
}

func NewParseError(op string, err error) *ParseError {
	return &ParseError{Op: op, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse: %s", e.Op)
	}
	return fmt.Sprintf("parse: %s: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports structurally valid input whose shape violates the
// normalization contract: missing first columns, empty sections, duplicate
// header tokens. These are never retried; the input document needs fixing.
type SchemaError struct {
	// Section is the title of the offending section, empty when not known.
	Section string
	// Table is the zero-based table index inside the section, -1 when the
	// error is not scoped to a single table.
	Table int
	// Reason describes the violation.
	Reason string
}

func NewSchemaError(section string, table int, reason string) *SchemaError {
	return &SchemaError{Section: section, Table: table, Reason: reason}
}

func (e *SchemaError) Error() string {
	switch {
	case e.Section == "":
		return fmt.Sprintf("schema: %s", e.Reason)
	case e.Table < 0:
		return fmt.Sprintf("schema: section %q: %s", e.Section, e.Reason)
	default:
		return fmt.Sprintf("schema: section %q table %d: %s", e.Section, e.Table, e.Reason)
	}
}

// IsNetwork reports whether any error in err's chain is a NetworkError.
func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsParse reports whether any error in err's chain is a ParseError.
func IsParse(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsSchema reports whether any error in err's chain is a SchemaError.
func IsSchema(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

var (
	_ error = (*NetworkError)(nil)
	_ error = (*ParseError)(nil)
	_ error = (*SchemaError)(nil)
)
