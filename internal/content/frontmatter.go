package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var yamlFrontmatter = &frontmatter.Format{
	Start:     "---",
	End:       "---",
	Unmarshal: yaml.Unmarshal,
}

// frontmatterDoc is the parsed YAML frontmatter of one file, keyed by
// top-level field. Values stay YAML nodes until a collection schema picks
// the fields it declares.
type frontmatterDoc struct {
	fields map[string]*yaml.Node
}

// parseFrontmatter splits a markdown document into its YAML frontmatter and
// body. A document without frontmatter yields an empty document.
func parseFrontmatter(raw []byte) (*frontmatterDoc, string, error) {
	var root yaml.Node
	body, err := frontmatter.Parse(bytes.NewReader(raw), &root, yamlFrontmatter)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}

	doc := &frontmatterDoc{fields: make(map[string]*yaml.Node)}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return doc, string(body), nil
		}
		node = node.Content[0]
	}
	node = deref(node)

	switch {
	case node.Kind == 0:
	case node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null":
	case node.Kind == yaml.MappingNode:
		doc.addMapping(node)
	default:
		return nil, "", fmt.Errorf("%w: frontmatter must be a mapping, got %s", ErrInvalidFrontmatter, yamlType(node))
	}

	return doc, string(body), nil
}

// addMapping records the keys of a mapping node. Keys pulled in through a
// merge key never override explicit ones.
func (d *frontmatterDoc) addMapping(node *yaml.Node) {
	var merged []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := deref(node.Content[i]), node.Content[i+1]
		if key.ShortTag() == "!!merge" {
			merged = append(merged, deref(value))
			continue
		}
		d.fields[key.Value] = value
	}

	for _, m := range merged {
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			src = deref(src)
			if src.Kind != yaml.MappingNode {
				continue
			}
			for i := 0; i+1 < len(src.Content); i += 2 {
				name := deref(src.Content[i]).Value
				if _, ok := d.fields[name]; !ok {
					d.fields[name] = src.Content[i+1]
				}
			}
		}
	}
}

// slug returns the explicit entry ID, if any.
func (d *frontmatterDoc) slug() (string, *FieldError) {
	node, ok := d.fields["slug"]
	if !ok {
		return "", nil
	}
	node = deref(node)
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" {
		return "", &FieldError{
			Field:    "slug",
			Expected: "string",
			Actual:   yamlType(node),
			Message:  "wrong type",
		}
	}
	return node.Value, nil
}

// plainValue converts a YAML node into the JSON value the schema validator
// and the typed decoder see. Scalars that would change meaning on the way
// (timestamps, NaN, infinities) are reported instead of converted.
// expected is the shape the schema declares for the node, if known.
func plainValue(node *yaml.Node, field, expected string) (any, []FieldError) {
	node = deref(node)

	switch node.Kind {
	case yaml.SequenceNode:
		item := strings.TrimPrefix(expected, "array of ")
		if item == expected {
			item = ""
		}
		out := make([]any, 0, len(node.Content))
		var errs []FieldError
		for i, child := range node.Content {
			v, ferrs := plainValue(child, field+"["+strconv.Itoa(i)+"]", item)
			errs = append(errs, ferrs...)
			out = append(out, v)
		}
		return out, errs

	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		var errs []FieldError
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := deref(node.Content[i])
			if key.Kind != yaml.ScalarNode {
				errs = append(errs, FieldError{
					Field:    field,
					Expected: "scalar key",
					Actual:   yamlType(key),
					Message:  "unsupported mapping key",
				})
				continue
			}
			v, ferrs := plainValue(node.Content[i+1], joinField(field, key.Value), "")
			errs = append(errs, ferrs...)
			out[key.Value] = v
		}
		return out, errs

	case yaml.ScalarNode:
		return scalarValue(node, field, expected)
	}

	return nil, []FieldError{{
		Field:    field,
		Expected: expected,
		Actual:   yamlType(node),
		Message:  "unsupported value",
	}}
}

func scalarValue(node *yaml.Node, field, expected string) (any, []FieldError) {
	reject := func(actual, msg string) (any, []FieldError) {
		return nil, []FieldError{{
			Field:    field,
			Expected: expected,
			Actual:   actual,
			Message:  msg,
		}}
	}

	switch node.ShortTag() {
	case "!!null":
		return nil, nil

	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return reject(quote(node.Value), "invalid boolean")
		}
		return b, nil

	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return json.Number(strconv.FormatInt(i, 10)), nil
		}
		var u uint64
		if err := node.Decode(&u); err == nil {
			return json.Number(strconv.FormatUint(u, 10)), nil
		}
		return reject("integer "+node.Value, "number out of range")

	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return reject(quote(node.Value), "invalid number")
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return reject("number "+node.Value, "wrong type")
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil

	case "!!timestamp":
		return reject("date", "wrong type")
	}

	// Strings, binary and application tags keep their literal text.
	return node.Value, nil
}

// yamlType names the type of a node the way validation errors do.
func yamlType(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "array"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!str":
			return "string"
		case "!!int":
			return "integer"
		case "!!float":
			return "number"
		case "!!bool":
			return "boolean"
		case "!!null":
			return "null"
		case "!!timestamp":
			return "date"
		}
		return strings.TrimPrefix(node.ShortTag(), "!!")
	}
	return "unknown"
}

func deref(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// decodeRecord decodes a validated document into the typed record.
func decodeRecord[T any](doc map[string]any, out *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
