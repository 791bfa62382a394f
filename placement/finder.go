package placement

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/pkg"
	"github.com/ardnew/labelfmt/style"
)

// Kind names a placement finder implementation.
type Kind string

// Placement kinds.
const (
	KindDummy  Kind = "dummy"
	KindSimple Kind = "simple"
)

// Kinds returns every placement kind.
func Kinds() []Kind { return []Kind{KindDummy, KindSimple} }

// FormatExpressionKey is the key-table name of the format expression.
const FormatExpressionKey = "format_expression"

// Finder is the configurable unit of label placement. It owns one
// [style.Defaults] and one [format.Tree].
type Finder interface {
	Kind() Kind

	FaceName() style.Value[string]
	SetFaceName(name string)
	SetFaceNameExpr(x *lang.Expr)

	TextSize() style.Value[float64]
	SetTextSize(size float64) error
	SetTextSizeExpr(x *lang.Expr)

	Fill() style.Value[style.Color]
	SetFill(c style.Color)
	SetFillExpr(x *lang.Expr)

	HaloFill() style.Value[style.Color]
	SetHaloFill(c style.Color)
	SetHaloFillExpr(x *lang.Expr)

	HaloRadius() style.Value[float64]
	SetHaloRadius(radius float64) error
	SetHaloRadiusExpr(x *lang.Expr)

	TextTransform() style.Value[style.TextTransform]
	SetTextTransform(t style.TextTransform)
	SetTextTransformExpr(x *lang.Expr)

	// FormatExpression returns the serialized format tree. Parsing it
	// yields a tree equal to the current one.
	FormatExpression() string
	// SetFormatExpression parses s and replaces the format tree. On error
	// the current tree is kept.
	SetFormatExpression(s string) error

	// Tree returns the current format tree, never a partially replaced one.
	Tree() *format.Tree
	// Defaults returns a snapshot of the default style.
	Defaults() style.Defaults

	// Get returns the property named key in host-neutral form.
	Get(key string) (style.Extracted, error)
	// Set assigns the property named key from text. Text in brackets is
	// an expression.
	Set(key, text string) error
	// Keys returns every key accepted by Get and Set.
	Keys() []string

	// Candidates returns the candidate placements in the order they are
	// tried.
	Candidates() []Candidate
	// Render renders the format tree for one feature with the finder's
	// defaults as the outer style.
	Render(ctx context.Context, attrs lang.Attributes, opts ...format.Option) ([]format.Run, error)
}

// New returns an unconfigured finder of the named kind. Simple finders
// start with [DefaultPositions].
func New(kind string) (Finder, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindDummy, "":
		return NewDummy(), nil
	case KindSimple:
		return NewSimple(DefaultPositions)
	}

	return nil, pkg.ErrUnknownPlacement.With(slog.String("kind", kind))
}

// core implements the accessor contract shared by every finder kind.
type core struct {
	defaults style.Defaults
	tree     atomic.Pointer[format.Tree]
}

func (c *core) FaceName() style.Value[string] { return c.defaults.FaceName }

func (c *core) SetFaceName(name string) { c.defaults.FaceName.SetLiteral(name) }

func (c *core) SetFaceNameExpr(x *lang.Expr) { c.defaults.FaceName.SetExpression(x) }

func (c *core) TextSize() style.Value[float64] { return c.defaults.TextSize }

func (c *core) SetTextSize(size float64) error { return c.defaults.SetTextSize(size) }

func (c *core) SetTextSizeExpr(x *lang.Expr) { c.defaults.TextSize.SetExpression(x) }

func (c *core) Fill() style.Value[style.Color] { return c.defaults.Fill }

func (c *core) SetFill(col style.Color) { c.defaults.Fill.SetLiteral(col) }

func (c *core) SetFillExpr(x *lang.Expr) { c.defaults.Fill.SetExpression(x) }

func (c *core) HaloFill() style.Value[style.Color] { return c.defaults.HaloFill }

func (c *core) SetHaloFill(col style.Color) { c.defaults.HaloFill.SetLiteral(col) }

func (c *core) SetHaloFillExpr(x *lang.Expr) { c.defaults.HaloFill.SetExpression(x) }

func (c *core) HaloRadius() style.Value[float64] { return c.defaults.HaloRadius }

func (c *core) SetHaloRadius(radius float64) error {
	return c.defaults.SetHaloRadius(radius)
}

func (c *core) SetHaloRadiusExpr(x *lang.Expr) { c.defaults.HaloRadius.SetExpression(x) }

func (c *core) TextTransform() style.Value[style.TextTransform] {
	return c.defaults.TextTransform
}

func (c *core) SetTextTransform(t style.TextTransform) {
	c.defaults.TextTransform.SetLiteral(t)
}

func (c *core) SetTextTransformExpr(x *lang.Expr) {
	c.defaults.TextTransform.SetExpression(x)
}

func (c *core) Tree() *format.Tree { return c.tree.Load() }

func (c *core) Defaults() style.Defaults { return c.defaults.Clone() }

func (c *core) FormatExpression() string { return c.tree.Load().String() }

func (c *core) SetFormatExpression(s string) error {
	t, err := format.ParseCached(context.Background(), s)
	if err != nil {
		return err
	}

	c.tree.Store(t)

	return nil
}

func (c *core) Get(key string) (style.Extracted, error) {
	if key == FormatExpressionKey {
		t := c.tree.Load()
		if t == nil {
			return style.Extracted{Kind: style.KindUnset}, nil
		}

		return style.Extracted{Kind: style.KindLiteral, Value: t.String()}, nil
	}

	k, err := style.ParseKey(key)
	if err != nil {
		return style.Extracted{}, err
	}

	return c.defaults.Get(k)
}

func (c *core) Set(key, text string) error {
	if key == FormatExpressionKey {
		return c.SetFormatExpression(text)
	}

	k, err := style.ParseKey(key)
	if err != nil {
		return err
	}

	return c.defaults.Set(k, text)
}

func (c *core) Keys() []string {
	keys := make([]string, 0, len(style.Keys())+1)
	for _, k := range style.Keys() {
		keys = append(keys, string(k))
	}

	return append(keys, FormatExpressionKey)
}

func (c *core) render(
	ctx context.Context,
	outer style.Defaults,
	attrs lang.Attributes,
	opts ...format.Option,
) ([]format.Run, error) {
	return format.Render(ctx, c.tree.Load(), outer, attrs, opts...)
}

// Candidate is one placement a renderer may try for a label, with its own
// style snapshot.
type Candidate struct {
	Direction Direction      `json:"direction" yaml:"direction"`
	Defaults  style.Defaults `json:"-"         yaml:"-"`
}

// Render renders the format tree for one feature with the candidate's
// defaults as the outer style.
func (c Candidate) Render(
	ctx context.Context,
	tree *format.Tree,
	attrs lang.Attributes,
	opts ...format.Option,
) ([]format.Run, error) {
	return format.Render(ctx, tree, c.Defaults, attrs, opts...)
}
