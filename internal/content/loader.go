package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/creasty/defaults"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var errBaseMissing = errors.New("collection directory does not exist")

// imageReferencer is implemented by records that declare image fields.
type imageReferencer interface {
	ImageRefs() map[string]ImageRef
}

// Loader scans collection directories below a site root and validates
// every matched file against its collection schema.
type Loader struct {
	fs   afero.Fs
	root string
	defs []Definition
}

// NewLoader creates a loader over fsys rooted at root. Without definitions
// the full registry is used.
func NewLoader(fsys afero.Fs, root string, defs ...Definition) *Loader {
	if len(defs) == 0 {
		defs = Registry()
	}
	if root == "" {
		root = "."
	}
	return &Loader{
		fs:   fsys,
		root: root,
		defs: defs,
	}
}

// Root returns the site root.
func (l *Loader) Root() string {
	return l.root
}

// Definitions returns the collections handled by the loader.
func (l *Loader) Definitions() []Definition {
	return append([]Definition(nil), l.defs...)
}

// sourceFile is a matched collection file.
type sourceFile struct {
	// Path is relative to the site root, slash separated.
	Path string
	// Rel is relative to the collection base, slash separated.
	Rel string
	// fsPath is the path on the loader filesystem.
	fsPath string
}

// Load validates all collections. Per-file problems are collected in the
// result; the returned error is reserved for problems that stop the scan
// (cancellation, unreadable directories, broken embedded schemas).
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	res := &Result{Stats: make(map[string]Stats, len(l.defs))}

	for _, def := range l.defs {
		if def.load == nil {
			return res, fmt.Errorf("%w: %q", ErrUnknownCollection, def.Name)
		}
		if err := def.load(ctx, l, def, res); err != nil {
			return res, fmt.Errorf("load collection %q: %w", def.Name, err)
		}
	}

	return res, nil
}

// Sources returns the filesystem paths of every file matched by any
// collection, sorted. It is used to detect content changes.
func (l *Loader) Sources() ([]string, error) {
	var out []string
	for _, def := range l.defs {
		files, err := l.files(def)
		if err != nil && !errors.Is(err, errBaseMissing) {
			return nil, err
		}
		for _, f := range files {
			out = append(out, f.fsPath)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Filesystem returns the filesystem the loader reads from.
func (l *Loader) Filesystem() afero.Fs {
	return l.fs
}

func (l *Loader) files(def Definition) ([]sourceFile, error) {
	base := joinRoot(l.root, def.Loader.Base)

	info, err := l.fs.Stat(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errBaseMissing
		}
		return nil, fmt.Errorf("stat collection dir %q: %w", base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("collection base %q is not a directory", base)
	}

	sub := l.fs
	if filepath.Clean(base) != "." {
		sub = afero.NewBasePathFs(l.fs, base)
	}

	matches, err := doublestar.Glob(afero.NewIOFS(sub), def.Loader.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q in %q: %w", def.Loader.Pattern, base, err)
	}
	sort.Strings(matches)

	baseSlash := def.baseSlash()
	files := make([]sourceFile, 0, len(matches))
	for _, m := range matches {
		// Dot files and dot directories are never content.
		if hiddenPath(m) {
			continue
		}
		files = append(files, sourceFile{
			Path:   path.Join(baseSlash, m),
			Rel:    m,
			fsPath: filepath.Join(base, filepath.FromSlash(m)),
		})
	}

	return files, nil
}

func loadCollection[T any](ctx context.Context, l *Loader, def Definition, res *Result) ([]Entry[T], error) {
	schema, err := def.schema()
	if err != nil {
		return nil, err
	}

	files, err := l.files(def)
	switch {
	case errors.Is(err, errBaseMissing):
		log.Warn().
			Str("collection", def.Name).
			Str("base", def.Loader.Base).
			Msg("Collection directory does not exist, collection is empty")
	case err != nil:
		return nil, err
	}

	stats := Stats{Files: len(files)}
	entries := make([]Entry[T], 0, len(files))
	ids := make(map[string]string, len(files))

	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		entry, explicitID, rerr := readEntry[T](l, def, schema, src)
		if rerr == nil {
			if prev, exists := ids[entry.ID]; exists {
				field := ""
				if explicitID {
					field = "slug"
				}
				rerr = &RecordError{
					Collection: def.Name,
					File:       src.Path,
					Fields: []FieldError{{
						Field:   field,
						Actual:  quote(entry.ID),
						Message: "entry id already used by " + prev,
					}},
					Err: ErrDuplicateID,
				}
			}
		}
		if rerr != nil {
			log.Debug().
				Str("collection", def.Name).
				Str("file", src.Path).
				Err(rerr).
				Msg("Content file rejected")
			res.Failures = append(res.Failures, rerr)
			stats.Failed++
			continue
		}

		ids[entry.ID] = src.Path
		entries = append(entries, entry)
	}

	stats.Valid = len(entries)
	res.Stats[def.Name] = stats

	return entries, nil
}

func loadEntry[T any](l *Loader, def Definition, schema *collectionSchema, src sourceFile) (Entry[T], *RecordError) {
	entry, _, rerr := readEntry[T](l, def, schema, src)
	return entry, rerr
}

// readEntry loads one file. The flag reports whether the entry ID came
// from a frontmatter slug rather than the file path.
func readEntry[T any](l *Loader, def Definition, schema *collectionSchema, src sourceFile) (Entry[T], bool, *RecordError) {
	fail := func(err error, fields ...FieldError) (Entry[T], bool, *RecordError) {
		return Entry[T]{}, false, &RecordError{
			Collection: def.Name,
			File:       src.Path,
			Fields:     fields,
			Err:        err,
		}
	}

	raw, err := afero.ReadFile(l.fs, src.fsPath)
	if err != nil {
		return fail(fmt.Errorf("read file: %w", err))
	}

	fm, body, err := parseFrontmatter(raw)
	if err != nil {
		return fail(err)
	}

	doc, fields := schema.document(fm)
	slug, slugErr := fm.slug()
	if slugErr != nil {
		fields = append(fields, *slugErr)
	}
	if len(fields) > 0 {
		return fail(ErrSchemaValidation, fields...)
	}

	fields, err = schema.validate(doc)
	if err != nil {
		return fail(err)
	}
	if len(fields) > 0 {
		return fail(ErrSchemaValidation, fields...)
	}

	var data T
	if err := decodeRecord(doc, &data); err != nil {
		return fail(fmt.Errorf("%w: decode: %v", ErrSchemaValidation, err))
	}
	if err := defaults.Set(&data); err != nil {
		return fail(fmt.Errorf("%w: apply defaults: %v", ErrSchemaValidation, err))
	}

	id := slug
	if id == "" {
		id = entryID(src.Rel)
	}

	entry := Entry[T]{
		ID:         id,
		Collection: def.Name,
		FilePath:   src.Path,
		Data:       data,
		Body:       body,
	}

	if r, ok := any(data).(imageReferencer); ok {
		assets, ferrs := checkImages(l.fs, l.root, src.Path, r.ImageRefs())
		if len(ferrs) > 0 {
			return fail(ErrImageNotFound, ferrs...)
		}
		entry.Assets = assets
	}

	return entry, slug != "", nil
}

// hiddenPath reports whether any segment of a slash-separated path starts
// with a dot.
func hiddenPath(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func joinRoot(root, rel string) string {
	p := filepath.FromSlash(rel)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
