package content

import (
	"errors"
)

// Entry is a validated content record together with its origin.
// Entries are never modified after loading.
type Entry[T any] struct {
	// ID is unique within the collection.
	ID string `json:"id"`

	// Collection is the name of the owning collection.
	Collection string `json:"collection"`

	// FilePath is the source file relative to the site root, slash separated.
	FilePath string `json:"filePath"`

	// Data is the typed frontmatter.
	Data T `json:"data"`

	// Body is the markdown following the frontmatter, verbatim.
	Body string `json:"body"`

	// Assets lists resolved local image paths relative to the site root.
	Assets []string `json:"assets,omitempty"`
}

// Collections holds the validated entries of every registered collection,
// ordered by file path.
type Collections struct {
	Tours     []Entry[Tour]     `json:"tours"`
	Locations []Entry[Location] `json:"locations"`
}

// Stats counts the files of one collection by outcome.
type Stats struct {
	Files  int `json:"files"`
	Valid  int `json:"valid"`
	Failed int `json:"failed"`
}

// Result is the outcome of loading all collections.
type Result struct {
	Collections Collections      `json:"collections"`
	Stats       map[string]Stats `json:"stats"`
	Failures    []*RecordError   `json:"failures,omitempty"`
}

// OK reports whether every scanned file produced a record.
func (r *Result) OK() bool {
	return len(r.Failures) == 0
}

// Files returns the number of scanned files across all collections.
func (r *Result) Files() int {
	n := 0
	for _, s := range r.Stats {
		n += s.Files
	}
	return n
}

// Err joins all record failures, or returns nil.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}
