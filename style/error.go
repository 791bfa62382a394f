package style

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ardnew/labelfmt/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrEvaluate       = pkg.NewError("property evaluation failed")
	ErrUnresolved     = pkg.NewError("unresolved property")
	ErrInvalidLiteral = pkg.NewError("invalid property value")
	ErrConvert        = pkg.NewError("cannot convert expression result")
)

// NoNode is the node index of errors raised outside of a format tree.
const NoNode = -1

// EvaluationError reports an expression that failed to evaluate, or whose
// result could not be converted to the property type.
type EvaluationError struct {
	Property Key    // Property being resolved, empty for substitutions
	Node     int    // Pre-order node index, or NoNode
	Source   string // Expression source
	Err      error  // Underlying cause
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	msg := ErrEvaluate.Error()

	if e.Property != "" {
		msg += " (" + string(e.Property) + ")"
	}

	if e.Node != NoNode {
		msg += " at node " + strconv.Itoa(e.Node)
	}

	msg += ": [" + e.Source + "]"

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *EvaluationError) Unwrap() error { return e.Err }

// Is matches [ErrEvaluate].
func (e *EvaluationError) Is(target error) bool {
	return target == ErrEvaluate
}

// LogValue implements slog.LogValuer.
func (e *EvaluationError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrEvaluate.Error()),
		slog.String("source", e.Source),
	}

	if e.Property != "" {
		attrs = append(attrs, slog.String("property", string(e.Property)))
	}

	if e.Node != NoNode {
		attrs = append(attrs, slog.Int("node", e.Node))
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// UnresolvedPropertyError reports an unset property resolved without any
// fallback.
type UnresolvedPropertyError struct {
	Property Key
	Node     int
}

// Error implements the error interface.
func (e *UnresolvedPropertyError) Error() string {
	msg := ErrUnresolved.Error()

	if e.Property != "" {
		msg += " " + strconv.Quote(string(e.Property))
	}

	if e.Node != NoNode {
		msg += " at node " + strconv.Itoa(e.Node)
	}

	return msg
}

// Is matches [ErrUnresolved].
func (e *UnresolvedPropertyError) Is(target error) bool {
	return target == ErrUnresolved
}

// LogValue implements slog.LogValuer.
func (e *UnresolvedPropertyError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("error", ErrUnresolved.Error())}

	if e.Property != "" {
		attrs = append(attrs, slog.String("property", string(e.Property)))
	}

	if e.Node != NoNode {
		attrs = append(attrs, slog.Int("node", e.Node))
	}

	return slog.GroupValue(attrs...)
}

// AtNode returns err with its node index set, if err is one of the property
// resolution errors of this package. Other errors are returned unchanged.
func AtNode(err error, node int) error {
	var (
		ee *EvaluationError
		ue *UnresolvedPropertyError
	)

	switch {
	case errors.As(err, &ee):
		cp := *ee
		cp.Node = node

		return &cp

	case errors.As(err, &ue):
		cp := *ue
		cp.Node = node

		return &cp
	}

	return err
}
