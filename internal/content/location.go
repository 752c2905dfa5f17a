package content

// Location is the frontmatter of a file in the locations collection.
type Location struct {
	// Name is the display name of the location.
	Name string `yaml:"name" json:"name" jsonschema:"required,example=Crater Lake"`

	// Region is the region the location belongs to.
	Region string `yaml:"region" json:"region" jsonschema:"required"`

	// Terrain describes the landscape.
	Terrain string `yaml:"terrain" json:"terrain" jsonschema:"required"`

	// Highlights lists notable features in order. May be empty but not absent.
	Highlights []string `yaml:"highlights" json:"highlights" jsonschema:"required"`
}
