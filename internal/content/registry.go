package content

import (
	"context"
	"fmt"
	"path"
)

// Registered collection names.
const (
	CollectionTours     = "tours"
	CollectionLocations = "locations"
)

// DefaultPattern matches markdown and MDX files whose names do not start
// with an underscore, at any depth below the collection base.
const DefaultPattern = "**/[^_]*.{md,mdx}"

// GlobLoader configures how the files of a collection are discovered.
type GlobLoader struct {
	// Pattern is a doublestar glob evaluated relative to Base.
	Pattern string `json:"pattern"`

	// Base is the collection directory relative to the site root.
	Base string `json:"base"`
}

type loadFunc func(ctx context.Context, l *Loader, def Definition, res *Result) error

// Definition binds a collection name to its loader configuration and schema.
type Definition struct {
	Name   string
	Loader GlobLoader

	schema func() (*collectionSchema, error)
	load   loadFunc
}

// Registry returns the registered collection definitions.
func Registry() []Definition {
	return []Definition{
		{
			Name:   CollectionTours,
			Loader: GlobLoader{Pattern: DefaultPattern, Base: "./src/content/tours"},
			schema: getTourSchema,
			load: loadInto(func(c *Collections) *[]Entry[Tour] {
				return &c.Tours
			}),
		},
		{
			Name:   CollectionLocations,
			Loader: GlobLoader{Pattern: DefaultPattern, Base: "./src/content/locations"},
			schema: getLocationSchema,
			load: loadInto(func(c *Collections) *[]Entry[Location] {
				return &c.Locations
			}),
		},
	}
}

// Names returns the registered collection names in registry order.
func Names() []string {
	defs := Registry()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	return names
}

// Lookup returns the definition registered under name.
func Lookup(name string) (Definition, error) {
	for _, def := range Registry() {
		if def.Name == name {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// WithLoader returns a copy of the definition using g. Empty fields of g
// keep the current values.
func (d Definition) WithLoader(g GlobLoader) Definition {
	if g.Pattern != "" {
		d.Loader.Pattern = g.Pattern
	}
	if g.Base != "" {
		d.Loader.Base = g.Base
	}
	return d
}

// baseSlash is the collection base as a clean slash-separated path.
func (d Definition) baseSlash() string {
	return path.Clean(d.Loader.Base)
}

// Schema compiles the definition's schema, reporting embedded schema problems early.
func (d Definition) Schema() error {
	if d.schema == nil {
		return fmt.Errorf("%w: %s has no schema", ErrSchemaLoad, d.Name)
	}
	_, err := d.schema()
	return err
}

func loadInto[T any](target func(*Collections) *[]Entry[T]) loadFunc {
	return func(ctx context.Context, l *Loader, def Definition, res *Result) error {
		entries, err := loadCollection[T](ctx, l, def, res)
		*target(&res.Collections) = entries
		return err
	}
}
