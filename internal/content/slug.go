package content

import (
	"path"
	"strings"
	"unicode"
)

// entryID derives the entry ID from a path relative to the collection base.
// The extension is dropped, every segment is slugged and a trailing "index"
// segment is removed so that "alps/index.md" and "alps.md" share an ID.
func entryID(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))

	segments := strings.Split(rel, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if s := slugify(seg); s != "" {
			out = append(out, s)
		}
	}
	if len(out) > 1 && out[len(out)-1] == "index" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "/")
}

// slugify lowercases s, turns spaces into dashes and drops everything that
// is not a letter, mark, number, connector, dash or space.
func slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-':
			b.WriteRune(r)
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsNumber(r), unicode.Is(unicode.Pc, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
