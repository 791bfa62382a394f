package placement

import (
	"github.com/ardnew/labelfmt/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrNoLabels       = pkg.NewError("style document defines no labels")
	ErrLabelNotFound  = pkg.NewError("label not found")
	ErrDuplicateLabel = pkg.NewError("duplicate label name")
)
