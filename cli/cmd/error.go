package cmd

import "github.com/ardnew/labelfmt/pkg"

// Sentinel errors returned by commands.
var (
	ErrNoFormat   = pkg.NewError("no format expression (use --expr, --file, or a style document label with a format)")
	ErrNoStyle    = pkg.NewError("a style document is required (use --style)")
	ErrInvalidSet = pkg.NewError("invalid --set override, want KEY=VALUE")
	ErrRender     = pkg.NewError("rendering failed")
)
