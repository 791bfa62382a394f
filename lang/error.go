package lang

import "github.com/ardnew/labelfmt/pkg"

// Predefined errors (sentinel values).
var (
	ErrCompile          = pkg.NewError("expression compilation failed")
	ErrEvaluate         = pkg.NewError("expression evaluation failed")
	ErrEmptyExpression  = pkg.NewError("empty expression")
	ErrInvalidAttribute = pkg.NewError("invalid attribute")
)
