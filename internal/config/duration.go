package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// Duration is a custom duration type that can be unmarshaled from strings
// like "500ms", "2s" or "1m".
type Duration struct {
	time.Duration
}

// Set parses s into the duration.
func (d *Duration) Set(s string) error {
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration format: %w", err)
	}
	if dur < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", s)
	}
	d.Duration = dur
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.Set(s)
}

// MarshalYAML implements yaml.Marshaler interface.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.Set(s)
}

// MarshalJSON implements json.Marshaler interface.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// JSONSchema returns the JSON schema for Duration type.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       "Human readable duration",
		Type:        "string",
		Description: "Go duration string: a sequence of <number><unit> tokens with units ns, us, ms, s, m, h.",
		Pattern:     `^(?:\d+(?:\.\d+)?(?:ns|us|µs|ms|s|m|h))+$`,
		Examples:    []any{"500ms", "2s", "1m30s"},
	}
}

// Std returns the standard time.Duration value.
func (d Duration) Std() time.Duration {
	return d.Duration
}
