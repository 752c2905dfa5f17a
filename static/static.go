package static

import _ "embed"

// ConfigSchema contains the JSON schema for configuration validation.
// It is embedded at build time from schemas/config.json.
//
//go:embed schemas/config.json
var ConfigSchema []byte

// TourSchema contains the JSON schema for tour frontmatter.
//
//go:embed schemas/tour.json
var TourSchema []byte

// LocationSchema contains the JSON schema for location frontmatter.
//
//go:embed schemas/location.json
var LocationSchema []byte
