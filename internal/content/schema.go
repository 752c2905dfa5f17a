package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/woozymasta/tour-content/static"
)

var (
	tourSchemaOnce     sync.Once
	tourSchema         *collectionSchema
	tourSchemaErr      error
	locationSchemaOnce sync.Once
	locationSchema     *collectionSchema
	locationSchemaErr  error

	printer = message.NewPrinter(language.English)
)

// collectionSchema is a compiled frontmatter schema plus a short shape
// description of every declared property, used to explain missing fields.
type collectionSchema struct {
	compiled *jschema.Schema
	shapes   map[string]string
}

// getTourSchema lazily compiles the embedded tour schema and returns it.
func getTourSchema() (*collectionSchema, error) {
	tourSchemaOnce.Do(func() {
		tourSchema, tourSchemaErr = compileEmbeddedSchema(static.TourSchema, "embedded://tour-schema")
	})

	return tourSchema, tourSchemaErr
}

// getLocationSchema lazily compiles the embedded location schema and returns it.
func getLocationSchema() (*collectionSchema, error) {
	locationSchemaOnce.Do(func() {
		locationSchema, locationSchemaErr = compileEmbeddedSchema(static.LocationSchema, "embedded://location-schema")
	})

	return locationSchema, locationSchemaErr
}

func compileEmbeddedSchema(raw []byte, schemaURL string) (*collectionSchema, error) {
	if len(raw) == 0 {
		return nil, ErrSchemaLoad
	}

	compiler := jschema.NewCompiler()

	var schemaDoc map[string]any
	if err := json.Unmarshal(raw, &schemaDoc); err != nil {
		return nil, fmt.Errorf("%w: unmarshal schema: %v", ErrSchemaLoad, err)
	}

	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("%w: add resource: %v", ErrSchemaLoad, err)
	}

	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %v", ErrSchemaLoad, err)
	}

	return &collectionSchema{
		compiled: compiled,
		shapes:   propertyShapes(schemaDoc),
	}, nil
}

// validate checks a JSON-normalised frontmatter document. A nil slice means
// the document is valid; a non-nil error means validation could not run.
func (s *collectionSchema) validate(doc any) ([]FieldError, error) {
	err := s.compiled.Validate(doc)
	if err == nil {
		return nil, nil
	}

	var ve *jschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validate frontmatter: %w", err)
	}

	fields := s.collect(ve, nil)
	if len(fields) == 0 {
		fields = append(fields, FieldError{Message: ve.Error()})
	}
	return fields, nil
}

// document keeps the frontmatter fields the schema declares and converts
// them to plain JSON values. Undeclared keys are dropped unseen.
func (s *collectionSchema) document(fm *frontmatterDoc) (map[string]any, []FieldError) {
	doc := make(map[string]any, len(s.shapes))
	var errs []FieldError
	for _, name := range sortedKeys(fm.fields) {
		shape, ok := s.shapes[name]
		if !ok {
			continue
		}
		v, ferrs := plainValue(fm.fields[name], name, shape)
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			continue
		}
		doc[name] = v
	}
	return doc, errs
}

func (s *collectionSchema) collect(ve *jschema.ValidationError, out []FieldError) []FieldError {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			out = s.collect(cause, out)
		}
		return out
	}

	field := fieldPath(ve.InstanceLocation)

	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		for _, name := range k.Missing {
			out = append(out, FieldError{
				Field:    joinField(field, name),
				Expected: s.shapes[name],
				Actual:   "missing",
				Message:  "required field is missing",
			})
		}
	case *kind.Type:
		out = append(out, FieldError{
			Field:    field,
			Expected: strings.Join(k.Want, " or "),
			Actual:   k.Got,
			Message:  "wrong type",
		})
	case *kind.Enum:
		out = append(out, FieldError{
			Field:    field,
			Expected: "one of " + formatValues(k.Want),
			Actual:   formatValue(k.Got),
			Message:  "value is not allowed",
		})
	default:
		out = append(out, FieldError{
			Field:   field,
			Message: ve.ErrorKind.LocalizedString(printer),
		})
	}

	return out
}

// propertyShapes describes the top-level properties of a schema document,
// e.g. "string", "array of string" or "one of Easy, Moderate".
func propertyShapes(doc map[string]any) map[string]string {
	props, _ := doc["properties"].(map[string]any)
	shapes := make(map[string]string, len(props))
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		shapes[name] = describe(prop)
	}
	return shapes
}

func describe(prop map[string]any) string {
	if values, ok := prop["enum"].([]any); ok {
		return "one of " + formatValues(values)
	}
	typ, _ := prop["type"].(string)
	if typ == "array" {
		if items, ok := prop["items"].(map[string]any); ok {
			return "array of " + describe(items)
		}
	}
	return typ
}

// fieldPath renders a JSON instance location as a field path:
// ["bestSeason", "1"] becomes "bestSeason[1]".
func fieldPath(location []string) string {
	var b strings.Builder
	for _, seg := range location {
		if _, err := strconv.Atoi(seg); err == nil {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func joinField(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func formatValues(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			parts = append(parts, s)
			continue
		}
		parts = append(parts, formatValue(v))
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func quote(s string) string {
	return strconv.Quote(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
