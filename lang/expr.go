package lang

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expr is a compiled value expression. It is the opaque handle stored in
// style properties and substitution nodes.
type Expr struct {
	source  string
	program *vm.Program
	refs    []string
}

// Compile compiles source into an [Expr]. Leading and trailing whitespace is
// not significant.
func Compile(source string) (*Expr, error) {
	src := strings.TrimSpace(source)
	if src == "" {
		return nil, ErrEmptyExpression
	}

	refs := &refCollector{seen: map[string]struct{}{}}

	program, err := expr.Compile(
		src,
		expr.Env(compileEnv()),
		expr.AllowUndefinedVariables(),
		expr.Patch(refs),
	)
	if err != nil {
		return nil, ErrCompile.Wrap(err).
			With(slog.String("source", src))
	}

	slices.Sort(refs.names)

	return &Expr{
		source:  src,
		program: program,
		refs:    refs.names,
	}, nil
}

// MustCompile is like [Compile] but panics on error. It is intended for
// tests and package-level declarations.
func MustCompile(source string) *Expr {
	x, err := Compile(source)
	if err != nil {
		panic(err)
	}

	return x
}

// Source returns the normalized source text of the expression.
func (x *Expr) Source() string {
	if x == nil {
		return ""
	}

	return x.source
}

// String implements fmt.Stringer.
func (x *Expr) String() string { return x.Source() }

// Attributes returns the sorted names of the feature attributes the
// expression refers to.
func (x *Expr) Attributes() []string {
	if x == nil {
		return nil
	}

	return slices.Clone(x.refs)
}

// Equal reports whether x and y were compiled from the same source.
func (x *Expr) Equal(y *Expr) bool {
	if x == nil || y == nil {
		return x == y
	}

	return x.source == y.source
}

// Evaluate runs the expression against the attributes of one feature.
// Expressions never cache results; every call evaluates again.
func (x *Expr) Evaluate(attrs Attributes) (any, error) {
	if x == nil || x.program == nil {
		return nil, ErrEmptyExpression
	}

	result, err := vm.Run(x.program, runtimeEnv(attrs))
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).
			With(slog.String("source", x.source))
	}

	return result, nil
}
