package style

import (
	"strings"

	"github.com/ardnew/labelfmt/lang"
)

// Extracted is the host-neutral form of a [Value]: the literal value, the
// symbolic expression text, or an unset marker. It is used to introspect and
// serialize properties.
type Extracted struct {
	Value      any    `json:"value,omitempty"      yaml:"value,omitempty"`
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`
	Kind       Kind   `json:"kind"                 yaml:"kind"`
}

// String renders e for display: the literal text, an expression in
// brackets, or the empty string when unset.
func (e Extracted) String() string {
	switch e.Kind {
	case KindLiteral:
		return lang.FormatValue(e.Value)
	case KindExpression:
		return "[" + e.Expression + "]"
	default:
		return ""
	}
}

// Text renders e in the form [Defaults.Set] reads back, as written in style
// documents. It equals String except that literal text which would read as
// an expression, or which starts with a backslash, gets a leading backslash.
func (e Extracted) Text() string {
	s := e.String()

	if e.Kind == KindLiteral {
		if _, ok := bracketed(s); ok || strings.HasPrefix(s, literalEscape) {
			return literalEscape + s
		}
	}

	return s
}

// IsUnset reports whether e is the unset marker.
func (e Extracted) IsUnset() bool { return e.Kind == KindUnset }

type extractor[T comparable] struct{}

func (extractor[T]) Unset() Extracted { return Extracted{Kind: KindUnset} }

func (extractor[T]) Literal(v T) Extracted {
	return Extracted{Kind: KindLiteral, Value: v}
}

func (extractor[T]) Expression(x *lang.Expr) Extracted {
	return Extracted{Kind: KindExpression, Expression: x.Source()}
}

// Extract converts v to its host-neutral form. It never fails.
func Extract[T comparable](v Value[T]) Extracted {
	return Visit[T, Extracted](v, extractor[T]{})
}
