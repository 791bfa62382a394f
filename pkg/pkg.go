//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the labelfmt module embedded at build
// time.
//
//go:embed VERSION
var version string

// Version returns the trimmed module version.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier. It appears in help
	// text and default config paths.
	Name = "labelfmt"
	// Description is a short, human-readable summary used in help output.
	Description = "Map label style resolver and format-expression compiler"
)
