package content

// Difficulty is the effort grade of a tour.
type Difficulty string

// Accepted difficulty grades.
const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyModerate Difficulty = "Moderate"
	DifficultyHard     Difficulty = "Hard"
	DifficultyExpert   Difficulty = "Expert"
)

// Difficulties lists the accepted grades in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyModerate, DifficultyHard, DifficultyExpert}
}

// Tour is the frontmatter of a file in the tours collection.
type Tour struct {
	// Title is the display name of the tour.
	Title string `yaml:"title" json:"title" jsonschema:"required,example=Ridge Line Traverse"`

	// Difficulty is the effort grade.
	Difficulty Difficulty `yaml:"difficulty" json:"difficulty" jsonschema:"required,enum=Easy,enum=Moderate,enum=Hard,enum=Expert,example=Moderate"`

	// DifficultyNote explains the grade.
	DifficultyNote string `yaml:"difficultyNote" json:"difficultyNote" jsonschema:"required"`

	// Duration is a free-form duration, e.g. "6-7 hours".
	Duration string `yaml:"duration" json:"duration" jsonschema:"required,example=6-7 hours"`

	// Distance is a free-form distance, e.g. "14 km".
	Distance string `yaml:"distance" json:"distance" jsonschema:"required,example=14 km"`

	// ElevationGain is a free-form elevation, e.g. "900 m".
	ElevationGain string `yaml:"elevationGain" json:"elevationGain" jsonschema:"required,example=900 m"`

	// BestSeason lists the recommended months or seasons in order.
	BestSeason []string `yaml:"bestSeason" json:"bestSeason" jsonschema:"required"`

	// GroupSize is a free-form group size, e.g. "2-8".
	GroupSize string `yaml:"groupSize" json:"groupSize" jsonschema:"required"`

	// Region is the region the tour is located in.
	Region string `yaml:"region" json:"region" jsonschema:"required"`

	// TerrainType describes the ground covered.
	TerrainType string `yaml:"terrainType" json:"terrainType" jsonschema:"required"`

	// AccessNotes explains how to reach the start.
	AccessNotes string `yaml:"accessNotes" json:"accessNotes" jsonschema:"required"`

	// Includes lists what the tour provides, in order.
	Includes []string `yaml:"includes" json:"includes" jsonschema:"required"`

	// Image is an optional cover image reference.
	Image ImageRef `yaml:"image,omitempty" json:"image,omitempty"`

	// Featured marks the tour for the landing page.
	Featured bool `yaml:"featured" json:"featured" default:"false" jsonschema:"default=false"`
}

// ImageRefs returns the image references declared by the tour, keyed by field.
func (t Tour) ImageRefs() map[string]ImageRef {
	if t.Image == "" {
		return nil
	}
	return map[string]ImageRef{"image": t.Image}
}
