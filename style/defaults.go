package style

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/pkg"
)

// Key names a style property.
type Key string

// Style property keys.
const (
	KeyFaceName      Key = "face_name"
	KeyTextSize      Key = "text_size"
	KeyFill          Key = "fill"
	KeyHaloFill      Key = "halo_fill"
	KeyHaloRadius    Key = "halo_radius"
	KeyTextTransform Key = "text_transform"
)

// Defaults is the default style of a label. Every property is independently
// unset, a literal, or an expression. The zero Defaults has every property
// unset.
//
// Fields may be assigned directly; the Set methods additionally validate
// numeric literals.
type Defaults struct {
	FaceName      Value[string]
	TextSize      Value[float64]
	Fill          Value[Color]
	HaloFill      Value[Color]
	HaloRadius    Value[float64]
	TextTransform Value[TextTransform]
}

// Resolved is a fully resolved style applied to one text run.
type Resolved struct {
	FaceName      string        `json:"face_name"      yaml:"face_name"`
	TextSize      float64       `json:"text_size"      yaml:"text_size"`
	Fill          Color         `json:"fill"           yaml:"fill"`
	HaloFill      Color         `json:"halo_fill"      yaml:"halo_fill"`
	HaloRadius    float64       `json:"halo_radius"    yaml:"halo_radius"`
	TextTransform TextTransform `json:"text_transform" yaml:"text_transform"`
}

// Builtin returns the style used by the command line tools when neither the
// label nor the configuration sets a property.
func Builtin() Defaults {
	return Defaults{
		FaceName:      Literal("DejaVu Sans Book"),
		TextSize:      Literal(10.0),
		Fill:          Literal(RGB(0, 0, 0)),
		HaloFill:      Literal(RGB(0xff, 0xff, 0xff)),
		HaloRadius:    Literal(0.0),
		TextTransform: Literal(TransformNone),
	}
}

// ValidateTextSize rejects sizes that are not positive and finite.
func ValidateTextSize(size float64) error {
	if size > 0 && !math.IsInf(size, 1) {
		return nil
	}

	return ErrInvalidLiteral.With(
		slog.String("property", string(KeyTextSize)),
		slog.Float64("value", size),
		slog.String("want", "finite, > 0"),
	)
}

// ValidateHaloRadius rejects radii that are negative or not finite.
func ValidateHaloRadius(radius float64) error {
	if radius >= 0 && !math.IsInf(radius, 1) {
		return nil
	}

	return ErrInvalidLiteral.With(
		slog.String("property", string(KeyHaloRadius)),
		slog.Float64("value", radius),
		slog.String("want", "finite, >= 0"),
	)
}

// SetTextSize sets a literal text size.
func (d *Defaults) SetTextSize(size float64) error {
	if err := ValidateTextSize(size); err != nil {
		return err
	}

	d.TextSize.SetLiteral(size)

	return nil
}

// SetHaloRadius sets a literal halo radius.
func (d *Defaults) SetHaloRadius(radius float64) error {
	if err := ValidateHaloRadius(radius); err != nil {
		return err
	}

	d.HaloRadius.SetLiteral(radius)

	return nil
}

// Clone returns an independent copy of d.
func (d Defaults) Clone() Defaults { return d }

// Overlay returns d with every unset property taken from parent.
func (d Defaults) Overlay(parent Defaults) Defaults {
	return Defaults{
		FaceName:      d.FaceName.Or(parent.FaceName),
		TextSize:      d.TextSize.Or(parent.TextSize),
		Fill:          d.Fill.Or(parent.Fill),
		HaloFill:      d.HaloFill.Or(parent.HaloFill),
		HaloRadius:    d.HaloRadius.Or(parent.HaloRadius),
		TextTransform: d.TextTransform.Or(parent.TextTransform),
	}
}

// IsZero reports whether every property of d is unset.
func (d Defaults) IsZero() bool { return d.Equal(Defaults{}) }

// Equal reports whether d and o hold equal properties.
func (d Defaults) Equal(o Defaults) bool {
	return d.FaceName.Equal(o.FaceName) &&
		d.TextSize.Equal(o.TextSize) &&
		d.Fill.Equal(o.Fill) &&
		d.HaloFill.Equal(o.HaloFill) &&
		d.HaloRadius.Equal(o.HaloRadius) &&
		d.TextTransform.Equal(o.TextTransform)
}

// Resolve resolves every property for the feature attrs. Layers are
// consulted in order and the first layer that sets a property wins. A text
// transform that no layer sets resolves to [TransformNone]; any other unset
// property fails with an [UnresolvedPropertyError]. All property errors are
// combined into the returned error.
func Resolve(attrs lang.Attributes, layers ...Defaults) (Resolved, error) {
	var eff Defaults
	for _, layer := range layers {
		eff = eff.Overlay(layer)
	}

	var (
		out  Resolved
		errs error
		err  error
	)

	out.FaceName, err = eff.FaceName.Resolve(attrs, ToString)
	errs = multierr.Append(errs, named(err, KeyFaceName))

	out.TextSize, err = eff.TextSize.Resolve(attrs, ToTextSize)
	errs = multierr.Append(errs, named(err, KeyTextSize))

	out.Fill, err = eff.Fill.Resolve(attrs, ToColor)
	errs = multierr.Append(errs, named(err, KeyFill))

	out.HaloFill, err = eff.HaloFill.Resolve(attrs, ToColor)
	errs = multierr.Append(errs, named(err, KeyHaloFill))

	out.HaloRadius, err = eff.HaloRadius.Resolve(attrs, ToHaloRadius)
	errs = multierr.Append(errs, named(err, KeyHaloRadius))

	out.TextTransform, err = eff.TextTransform.ResolveOr(
		attrs, ToTextTransform, TransformNone,
	)
	errs = multierr.Append(errs, named(err, KeyTextTransform))

	return out, errs
}

func named(err error, key Key) error {
	switch e := err.(type) {
	case *EvaluationError:
		e.Property = key
	case *UnresolvedPropertyError:
		e.Property = key
	}

	return err
}

// ToString converts an expression result to label text.
func ToString(v any) (string, error) { return lang.FormatValue(v), nil }

// ToNumber converts a numeric expression result to float64.
func ToNumber(v any) (float64, error) {
	f, ok := lang.ToFloat(v)
	if !ok {
		return 0, ErrConvert.With(
			slog.String("want", "number"),
			slog.String("got", fmt.Sprintf("%T", v)),
		)
	}

	return f, nil
}

// ToTextSize converts an expression result to a valid text size.
func ToTextSize(v any) (float64, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}

	return f, ValidateTextSize(f)
}

// ToHaloRadius converts an expression result to a valid halo radius.
func ToHaloRadius(v any) (float64, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}

	return f, ValidateHaloRadius(f)
}

// property binds a [Key] to its field of [Defaults].
type property struct {
	key   Key
	attr  string
	get   func(*Defaults) Extracted
	set   func(*Defaults, string) error
	expr  func(*Defaults, *lang.Expr)
	exprs func(*Defaults) *lang.Expr
	clear func(*Defaults)
	isSet func(*Defaults) bool
}

func field[T comparable](
	key Key,
	attr string,
	ptr func(*Defaults) *Value[T],
	parse func(string) (T, error),
) property {
	return property{
		key:  key,
		attr: attr,
		get:  func(d *Defaults) Extracted { return Extract(*ptr(d)) },
		set: func(d *Defaults, s string) error {
			v, err := parse(s)
			if err != nil {
				return err
			}

			ptr(d).SetLiteral(v)

			return nil
		},
		expr:  func(d *Defaults, x *lang.Expr) { ptr(d).SetExpression(x) },
		exprs: func(d *Defaults) *lang.Expr { return ptr(d).Expr() },
		clear: func(d *Defaults) { ptr(d).Clear() },
		isSet: func(d *Defaults) bool { return ptr(d).IsSet() },
	}
}

var properties = []property{
	field(KeyFaceName, "face-name",
		func(d *Defaults) *Value[string] { return &d.FaceName },
		func(s string) (string, error) { return s, nil },
	),
	field(KeyTextSize, "size",
		func(d *Defaults) *Value[float64] { return &d.TextSize },
		parseNumber(ValidateTextSize),
	),
	field(KeyFill, "fill",
		func(d *Defaults) *Value[Color] { return &d.Fill },
		ParseColor,
	),
	field(KeyHaloFill, "halo-fill",
		func(d *Defaults) *Value[Color] { return &d.HaloFill },
		ParseColor,
	),
	field(KeyHaloRadius, "halo-radius",
		func(d *Defaults) *Value[float64] { return &d.HaloRadius },
		parseNumber(ValidateHaloRadius),
	),
	field(KeyTextTransform, "text-transform",
		func(d *Defaults) *Value[TextTransform] { return &d.TextTransform },
		ParseTextTransform,
	),
}

func parseNumber(validate func(float64) error) func(string) (float64, error) {
	return func(s string) (float64, error) {
		v := lang.ParseValue(strings.TrimSpace(s))
		if _, quoted := v.(string); quoted {
			return 0, pkg.ErrInvalidNumber.With(slog.String("value", s))
		}

		f, ok := lang.ToFloat(v)
		if !ok {
			return 0, pkg.ErrInvalidNumber.With(slog.String("value", s))
		}

		if err := validate(f); err != nil {
			return 0, err
		}

		return f, nil
	}
}

func lookup(key Key) (*property, error) {
	for i := range properties {
		if properties[i].key == key {
			return &properties[i], nil
		}
	}

	return nil, pkg.ErrUnknownProperty.With(slog.String("key", string(key)))
}

// Keys returns every property key in declaration order.
func Keys() []Key {
	keys := make([]Key, len(properties))
	for i, p := range properties {
		keys[i] = p.key
	}

	return keys
}

// ParseKey returns the key named s. Both key names (face_name) and format
// group attribute names (face-name) are accepted.
func ParseKey(s string) (Key, error) {
	for _, p := range properties {
		if string(p.key) == s || p.attr == s {
			return p.key, nil
		}
	}

	return "", pkg.ErrUnknownProperty.With(slog.String("key", s))
}

// Attr returns the name of the key in format group attributes.
func (k Key) Attr() string {
	if p, err := lookup(k); err == nil {
		return p.attr
	}

	return string(k)
}

// KeyForAttr returns the key of a format group attribute name.
func KeyForAttr(attr string) (Key, bool) {
	i := slices.IndexFunc(properties, func(p property) bool {
		return p.attr == attr
	})
	if i < 0 {
		return "", false
	}

	return properties[i].key, true
}

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }

// Get returns the host-neutral form of the property key.
func (d *Defaults) Get(key Key) (Extracted, error) {
	p, err := lookup(key)
	if err != nil {
		return Extracted{}, err
	}

	return p.get(d), nil
}

// Set assigns the property key from text. Text enclosed in brackets, such
// as "[NAME]", is compiled as an expression; anything else is parsed as a
// literal of the property type. A leading backslash is dropped and forces
// the rest to be a literal, so `\[Bold]` sets the face name "[Bold]".
func (d *Defaults) Set(key Key, text string) error {
	p, err := lookup(key)
	if err != nil {
		return err
	}

	if lit, ok := strings.CutPrefix(text, literalEscape); ok {
		return p.set(d, lit)
	}

	if src, ok := bracketed(text); ok {
		x, err := lang.Compile(src)
		if err != nil {
			return err
		}

		p.expr(d, x)

		return nil
	}

	return p.set(d, text)
}

// SetLiteral parses text as a literal of the type of the property key and
// assigns it. Brackets carry no special meaning.
func (d *Defaults) SetLiteral(key Key, text string) error {
	p, err := lookup(key)
	if err != nil {
		return err
	}

	return p.set(d, text)
}

// SetExpr assigns the expression x to the property key. A nil x clears it.
func (d *Defaults) SetExpr(key Key, x *lang.Expr) error {
	p, err := lookup(key)
	if err != nil {
		return err
	}

	p.expr(d, x)

	return nil
}

// Clear unsets the property key.
func (d *Defaults) Clear(key Key) error {
	p, err := lookup(key)
	if err != nil {
		return err
	}

	p.clear(d)

	return nil
}

// SetKeys returns the keys of the properties of d that are set, in
// declaration order.
func (d *Defaults) SetKeys() []Key {
	var keys []Key

	for _, p := range properties {
		if p.isSet(d) {
			keys = append(keys, p.key)
		}
	}

	return keys
}

// Expressions returns the source of every expression property of d, in
// declaration order.
func (d *Defaults) Expressions() []string {
	var out []string

	for _, p := range properties {
		if e := p.get(d); e.Kind == KindExpression {
			out = append(out, e.Expression)
		}
	}

	return out
}

// Attributes returns the attribute names referenced by the expression
// properties of d, without duplicates, in declaration order.
func (d *Defaults) Attributes() []string {
	var out []string

	for _, p := range properties {
		if x := p.exprs(d); x != nil {
			out = appendUnique(out, x.Attributes()...)
		}
	}

	return out
}

func appendUnique(dst []string, names ...string) []string {
	for _, name := range names {
		if !slices.Contains(dst, name) {
			dst = append(dst, name)
		}
	}

	return dst
}

// literalEscape marks text that [Defaults.Set] assigns as a literal.
const literalEscape = `\`

func bracketed(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return s[1 : len(s)-1], true
	}

	return "", false
}
