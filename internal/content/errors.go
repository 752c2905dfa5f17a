package content

import (
	"errors"
	"fmt"
	"strings"
)

// Named errors used by the content loader.
var (
	// ErrUnknownCollection is returned when a collection name is not registered.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrSchemaLoad is returned when an embedded collection schema cannot be loaded or compiled.
	ErrSchemaLoad = errors.New("failed to load collection schema")

	// ErrSchemaValidation is returned when frontmatter does not match the collection schema.
	ErrSchemaValidation = errors.New("frontmatter schema validation failed")

	// ErrInvalidFrontmatter is returned when the frontmatter block cannot be parsed.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrImageNotFound is returned when a local image reference does not resolve to an image file.
	ErrImageNotFound = errors.New("image not found")

	// ErrDuplicateID is returned when two files of one collection produce the same entry ID.
	ErrDuplicateID = errors.New("duplicate entry id")
)

// FieldError describes a single offending frontmatter field.
type FieldError struct {
	// Field is the field path, e.g. "difficulty" or "bestSeason[1]".
	// Empty when the problem concerns the frontmatter as a whole.
	Field string `json:"field"`

	// Expected describes the accepted shape, e.g. "string".
	Expected string `json:"expected,omitempty"`

	// Actual describes what was found, e.g. "missing" or "number".
	Actual string `json:"actual,omitempty"`

	// Message is a human readable description of the problem.
	Message string `json:"message"`
}

func (e FieldError) String() string {
	var b strings.Builder
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, " (expected %s, got %s)", orUnknown(e.Expected), orUnknown(e.Actual))
	}
	return b.String()
}

// RecordError reports why a single content file was not registered.
// It wraps one of the package sentinel errors.
type RecordError struct {
	Collection string       `json:"collection"`
	File       string       `json:"file"`
	Fields     []FieldError `json:"fields"`
	Err        error        `json:"-"`
}

func (e *RecordError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: %s: %v", e.Collection, e.File, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v: %s", e.Collection, e.File, e.Err, strings.Join(parts, "; "))
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// HasField reports whether the error names the given field.
func (e *RecordError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
