package app

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/tour-content/internal/content"
)

// Output formats supported by the report writer.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type failureReport struct {
	Collection string               `json:"collection"`
	File       string               `json:"file"`
	Error      string               `json:"error"`
	Fields     []content.FieldError `json:"fields,omitempty"`
}

type jsonReport struct {
	OK          bool                     `json:"ok"`
	Stats       map[string]content.Stats `json:"stats"`
	Collections content.Collections      `json:"collections"`
	Failures    []failureReport          `json:"failures"`
}

// logFailures writes one log line per offending field.
func logFailures(res *content.Result) {
	for _, f := range res.Failures {
		if len(f.Fields) == 0 {
			log.Error().
				Str("collection", f.Collection).
				Str("file", f.File).
				Err(f.Err).
				Msg("Content file rejected")
			continue
		}
		for _, field := range f.Fields {
			log.Error().
				Str("collection", f.Collection).
				Str("file", f.File).
				Str("field", field.Field).
				Str("expected", field.Expected).
				Str("actual", field.Actual).
				Err(f.Err).
				Msg(field.Message)
		}
	}
}

func writeReport(w io.Writer, format string, res *content.Result) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatText, "":
		return writeText(w, res)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeJSON(w io.Writer, res *content.Result) error {
	report := jsonReport{
		OK:          res.OK(),
		Stats:       res.Stats,
		Collections: res.Collections,
		Failures:    make([]failureReport, 0, len(res.Failures)),
	}
	for _, f := range res.Failures {
		fr := failureReport{
			Collection: f.Collection,
			File:       f.File,
			Fields:     f.Fields,
		}
		if f.Err != nil {
			fr.Error = f.Err.Error()
		}
		report.Failures = append(report.Failures, fr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func writeText(w io.Writer, res *content.Result) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	for _, f := range res.Failures {
		printf("FAIL %s (%s): %v\n", f.File, f.Collection, f.Err)
		for _, field := range f.Fields {
			printf("  - %s\n", field.String())
		}
	}

	names := make([]string, 0, len(res.Stats))
	for name := range res.Stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := res.Stats[name]
		printf("%s: %d files, %d valid, %d failed\n", name, s.Files, s.Valid, s.Failed)
	}

	if res.OK() {
		printf("ok: %d files validated\n", res.Files())
	} else {
		printf("failed: %d of %d files rejected\n", len(res.Failures), res.Files())
	}

	return err
}
