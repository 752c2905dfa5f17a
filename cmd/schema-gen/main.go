package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/woozymasta/tour-content/internal/config"
	"github.com/woozymasta/tour-content/internal/content"
	"github.com/woozymasta/tour-content/static"
)

type target struct {
	out         string
	value       any
	title       string
	description string
	pkg         string
	embedded    []byte
}

func targets() []target {
	return []target{
		{
			out:         "config.json",
			value:       new(config.Config),
			title:       "Tour Content Configuration",
			description: "Configuration schema for the contentcheck tool",
			pkg:         "internal/config",
			embedded:    static.ConfigSchema,
		},
		{
			out:         "tour.json",
			value:       new(content.Tour),
			title:       "Tour Frontmatter",
			description: "Frontmatter schema for files in the tours collection",
			pkg:         "internal/content",
			embedded:    static.TourSchema,
		},
		{
			out:         "location.json",
			value:       new(content.Location),
			title:       "Location Frontmatter",
			description: "Frontmatter schema for files in the locations collection",
			pkg:         "internal/content",
			embedded:    static.LocationSchema,
		},
	}
}

// reflectSchema builds the draft-07 schema of a target. Go comments are
// added when modulePath is set.
func reflectSchema(tg target, modulePath string) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		// Frontmatter may carry keys the typed records drop; the
		// configuration file is strict.
		AllowAdditionalProperties:  tg.pkg == "internal/content",
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		ExpandedStruct:             true,
	}

	// Add Go comments for better documentation
	if modulePath != "" {
		if err := r.AddGoComments(modulePath, tg.pkg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to add Go comments: %v\n", err)
		}
	}

	schema := r.Reflect(tg.value)

	// Use draft-07 which is supported by github.com/santhosh-tekuri/jsonschema/v6.
	schema.Version = "http://json-schema.org/draft-07/schema#"
	schema.ID = ""
	schema.Title = tg.title
	schema.Description = tg.description

	return schema
}

func main() {
	var (
		outDir      string
		modulePath  string
		prettyPrint bool
	)
	flag.StringVar(&outDir, "out-dir", "static/schemas", "output directory for generated schemas")
	flag.StringVar(&modulePath, "module", "github.com/woozymasta/tour-content", "go module path (for extracting comments)")
	flag.BoolVar(&prettyPrint, "pretty", true, "pretty print JSON output")
	flag.Parse()

	for _, tg := range targets() {
		schema := reflectSchema(tg, modulePath)

		outFile := filepath.Join(outDir, tg.out)
		if err := writeSchema(outFile, schema, prettyPrint); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write %s: %v\n", outFile, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Schema written to: %s\n", outFile)
	}
}

func writeSchema(outFile string, schema interface{}, prettyPrint bool) error {
	if dir := filepath.Dir(outFile); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to close output file %s: %v\n", outFile, cerr)
		}
	}()

	enc := json.NewEncoder(f)
	if prettyPrint {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	return nil
}
