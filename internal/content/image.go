package content

import (
	"path"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/afero"
)

// PublicDir is the directory, relative to the site root, that root-relative
// image references resolve against.
const PublicDir = "public"

var imageExtensions = map[string]struct{}{
	".avif": {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".svg":  {},
	".tiff": {},
	".webp": {},
}

// ImageRef is an image reference taken from frontmatter: a remote URL,
// a path relative to the markdown file or a root-relative public path.
type ImageRef string

// String returns the reference as written in frontmatter.
func (r ImageRef) String() string {
	return string(r)
}

// IsRemote reports whether the reference is an http(s) URL.
func (r ImageRef) IsRemote() bool {
	s := strings.ToLower(string(r))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// JSONSchema returns the JSON schema for ImageRef type.
func (ImageRef) JSONSchema() *jsonschema.Schema {
	minLen := uint64(1)
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Image path relative to the markdown file, a /public path or an http(s) URL",
		Examples:    []any{"./cover.jpg", "/images/ridge.webp", "https://example.com/ridge.png"},
		MinLength:   &minLen,
	}
}

// resolve returns the slash-separated path of a local image relative to the
// site root. file is the markdown file path relative to the same root.
// Remote references resolve to an empty path.
func (r ImageRef) resolve(file string) string {
	if r.IsRemote() {
		return ""
	}
	ref := string(r)
	if strings.HasPrefix(ref, "/") {
		return path.Join(PublicDir, ref)
	}
	return path.Join(path.Dir(file), ref)
}

// checkImages resolves every image reference of a record against fsys and
// returns the resolved local paths together with the failures.
func checkImages(fsys afero.Fs, root, file string, refs map[string]ImageRef) ([]string, []FieldError) {
	if len(refs) == 0 {
		return nil, nil
	}

	var (
		assets []string
		errs   []FieldError
	)
	for _, field := range sortedKeys(refs) {
		ref := refs[field]
		local := ref.resolve(file)
		if local == "" {
			continue
		}

		ext := strings.ToLower(path.Ext(local))
		if _, ok := imageExtensions[ext]; !ok {
			errs = append(errs, FieldError{
				Field:    field,
				Expected: "image file (avif, gif, jpeg, jpg, png, svg, tiff, webp)",
				Actual:   quote(ref.String()),
				Message:  "unsupported image format",
			})
			continue
		}

		info, err := fsys.Stat(joinRoot(root, local))
		if err != nil || info.IsDir() {
			errs = append(errs, FieldError{
				Field:    field,
				Expected: "existing image file",
				Actual:   quote(local),
				Message:  "image could not be resolved",
			})
			continue
		}
		assets = append(assets, local)
	}

	return assets, errs
}
