package style

import (
	"github.com/ardnew/labelfmt/lang"
)

// Kind identifies the state of a [Value].
type Kind uint8

const (
	KindUnset      Kind = iota // unset
	KindLiteral                // literal
	KindExpression             // expression
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindLiteral:
		return "literal"
	case KindExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Value is a style property that is unset, a literal of type T, or an
// expression evaluated per feature. The zero Value is unset.
type Value[T comparable] struct {
	literal T
	expr    *lang.Expr
	kind    Kind
}

// Literal returns a Value holding v.
func Literal[T comparable](v T) Value[T] {
	return Value[T]{literal: v, kind: KindLiteral}
}

// Expression returns a Value evaluating x. A nil x yields an unset Value.
func Expression[T comparable](x *lang.Expr) Value[T] {
	if x == nil {
		return Value[T]{}
	}

	return Value[T]{expr: x, kind: KindExpression}
}

// Unset returns an unset Value.
func Unset[T comparable]() Value[T] { return Value[T]{} }

// Kind returns the current state of v.
func (v Value[T]) Kind() Kind { return v.kind }

// IsSet reports whether v holds a literal or an expression.
func (v Value[T]) IsSet() bool { return v.kind != KindUnset }

// Literal returns the literal value and true if v is a literal.
func (v Value[T]) Literal() (T, bool) {
	return v.literal, v.kind == KindLiteral
}

// Expr returns the expression handle, or nil if v is not an expression.
func (v Value[T]) Expr() *lang.Expr {
	if v.kind != KindExpression {
		return nil
	}

	return v.expr
}

// SetLiteral makes v the literal x, discarding any expression.
func (v *Value[T]) SetLiteral(x T) { *v = Literal(x) }

// SetExpression makes v evaluate x. A nil x clears v.
func (v *Value[T]) SetExpression(x *lang.Expr) { *v = Expression[T](x) }

// Clear makes v unset.
func (v *Value[T]) Clear() { *v = Value[T]{} }

// Or returns v if it is set, otherwise parent.
func (v Value[T]) Or(parent Value[T]) Value[T] {
	if v.IsSet() {
		return v
	}

	return parent
}

// Equal reports whether v and w hold the same state and payload.
// Expressions compare by source.
func (v Value[T]) Equal(w Value[T]) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindLiteral:
		return v.literal == w.literal
	case KindExpression:
		return v.expr.Equal(w.expr)
	default:
		return true
	}
}

// Visitor handles each state of a [Value] and produces an R.
type Visitor[T comparable, R any] interface {
	Unset() R
	Literal(T) R
	Expression(*lang.Expr) R
}

// Visit dispatches v to the visitor method matching its state.
func Visit[T comparable, R any](v Value[T], visitor Visitor[T, R]) R {
	switch v.kind {
	case KindLiteral:
		return visitor.Literal(v.literal)
	case KindExpression:
		return visitor.Expression(v.expr)
	default:
		return visitor.Unset()
	}
}

// Converter converts an expression result to a property type.
type Converter[T comparable] func(any) (T, error)

// Resolve returns the value of v for the feature attrs. Literals are returned
// as is; expressions are evaluated and converted with conv. Resolving an
// unset Value fails with an [UnresolvedPropertyError].
//
// Errors carry no property name or node; callers attach them.
func (v Value[T]) Resolve(attrs lang.Attributes, conv Converter[T]) (T, error) {
	var zero T

	switch v.kind {
	case KindLiteral:
		return v.literal, nil

	case KindExpression:
		result, err := v.expr.Evaluate(attrs)
		if err != nil {
			return zero, &EvaluationError{
				Node:   NoNode,
				Source: v.expr.Source(),
				Err:    err,
			}
		}

		out, err := conv(result)
		if err != nil {
			return zero, &EvaluationError{
				Node:   NoNode,
				Source: v.expr.Source(),
				Err:    err,
			}
		}

		return out, nil

	default:
		return zero, &UnresolvedPropertyError{Node: NoNode}
	}
}

// ResolveOr is like [Value.Resolve] but returns fallback when v is unset.
func (v Value[T]) ResolveOr(
	attrs lang.Attributes,
	conv Converter[T],
	fallback T,
) (T, error) {
	if !v.IsSet() {
		return fallback, nil
	}

	return v.Resolve(attrs, conv)
}
