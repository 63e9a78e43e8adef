package schema

import (
	"fmt"
	"strings"
)

// FieldError is a single field-level violation. Field uses dotted paths with
// indexes for array elements, e.g. "interfaces.mcp" or "tags[2]".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// RecordError collects every violation found in one record. Fields holds the
// field-level errors, Record holds whole-record failures such as unparseable
// input.
type RecordError struct {
	Fields []FieldError `json:"fields,omitempty"`
	Record []string     `json:"record,omitempty"`
}

func (e *RecordError) Error() string {
	parts := make([]string, 0, len(e.Record)+len(e.Fields))
	parts = append(parts, e.Record...)
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return strings.Join(parts, "; ")
}

// FieldMap groups messages by field, in the order they were reported
func (e *RecordError) FieldMap() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

func recordFailure(format string, args ...any) *RecordError {
	return &RecordError{Record: []string{fmt.Sprintf(format, args...)}}
}

// BatchErrorKind names a cross-record invariant violation
type BatchErrorKind string

const (
	BatchSlugMismatch  BatchErrorKind = "slug_mismatch"
	BatchDuplicateSlug BatchErrorKind = "duplicate_slug"
)

// BatchError is a cross-record violation attributed to one record
type BatchError struct {
	Kind     BatchErrorKind `json:"kind"`
	Slug     string         `json:"slug"`
	Expected string         `json:"expected,omitempty"`
	Sources  []string       `json:"sources,omitempty"`
	Message  string         `json:"message"`
}

func (e BatchError) Error() string {
	return e.Message
}
