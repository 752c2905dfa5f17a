package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/woozymasta/tour-content/internal/content"
)

// DefaultWatchInterval is used when watch_interval is not configured.
const DefaultWatchInterval = "2s"

// Config represents the content checker configuration.
type Config struct {
	// Root is the site root directory. Relative paths are resolved against
	// the directory of the configuration file.
	Root string `yaml:"root,omitempty" json:"root,omitempty" default:"." jsonschema:"default=.,example=./site"`

	// Collections overrides the loader settings of registered collections.
	Collections map[string]Collection `yaml:"collections,omitempty" json:"collections,omitempty"`

	// WatchInterval defines how often watch mode polls content files for changes.
	WatchInterval Duration `yaml:"watch_interval,omitempty" json:"watch_interval,omitempty" jsonschema:"example=2s"`

	// MetricsEnabled toggles the Prometheus /metrics endpoint in watch mode.
	MetricsEnabled bool `yaml:"metrics_enabled,omitempty" json:"metrics_enabled,omitempty" default:"false" jsonschema:"default=false"`

	// MetricsPort defines the port for the watch mode HTTP server.
	MetricsPort int `yaml:"metrics_port,omitempty" json:"metrics_port,omitempty" default:"9090" jsonschema:"default=9090,minimum=1,maximum=65535"`
}

// Collection overrides where a collection's files are found.
type Collection struct {
	// Base is the collection directory relative to the site root.
	Base string `yaml:"base,omitempty" json:"base,omitempty" jsonschema:"minLength=1,example=./src/content/tours"`

	// Pattern is the doublestar glob evaluated relative to Base.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty" jsonschema:"minLength=1"`
}

// SetDefaults implements defaults.Setter.
func (c *Config) SetDefaults() {
	if c.WatchInterval.Duration == 0 {
		_ = c.WatchInterval.Set(DefaultWatchInterval)
	}
}

// Definitions returns the registered collection definitions with the
// configured overrides applied, in registry order.
func (c *Config) Definitions() ([]content.Definition, error) {
	known := make(map[string]struct{})
	defs := content.Registry()
	for i, def := range defs {
		known[def.Name] = struct{}{}
		if override, ok := c.Collections[def.Name]; ok {
			defs[i] = def.WithLoader(content.GlobLoader{
				Base:    override.Base,
				Pattern: override.Pattern,
			})
		}
	}

	names := make([]string, 0, len(c.Collections))
	for name := range c.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidConfig, content.ErrUnknownCollection, name)
		}
	}

	return defs, nil
}

// resolveRoot makes Root absolute, relative to dir when it is relative.
func (c *Config) resolveRoot(dir string) error {
	root := c.Root
	if !filepath.IsAbs(root) {
		root = filepath.Join(dir, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root %q: %w", c.Root, err)
	}
	c.Root = abs
	return nil
}
