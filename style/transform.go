package style

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/labelfmt/pkg"
)

// TextTransform is a case or order transform applied to resolved run text.
type TextTransform uint8

const (
	TransformNone TextTransform = iota
	TransformUppercase
	TransformLowercase
	TransformCapitalize
	TransformReverse
)

var transformNames = [...]string{
	TransformNone:       "none",
	TransformUppercase:  "uppercase",
	TransformLowercase:  "lowercase",
	TransformCapitalize: "capitalize",
	TransformReverse:    "reverse",
}

// TransformNames returns the names accepted by [ParseTextTransform].
func TransformNames() []string { return slices.Clone(transformNames[:]) }

// ParseTextTransform parses a transform name, case-insensitively.
func ParseTextTransform(s string) (TextTransform, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	if i := slices.Index(transformNames[:], name); i >= 0 {
		return TextTransform(i), nil
	}

	return TransformNone, pkg.ErrInvalidTransform.With(
		slog.String("transform", s),
		slog.String("valid", strings.Join(transformNames[:], "|")),
	)
}

// String returns the transform name.
func (t TextTransform) String() string {
	if int(t) < len(transformNames) {
		return transformNames[t]
	}

	return fmt.Sprintf("TextTransform(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t TextTransform) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TextTransform) UnmarshalText(text []byte) error {
	parsed, err := ParseTextTransform(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// Apply returns s transformed. Case mappings follow Unicode rules for the
// undetermined language.
func (t TextTransform) Apply(s string) string {
	switch t {
	case TransformUppercase:
		return cases.Upper(language.Und).String(s)
	case TransformLowercase:
		return cases.Lower(language.Und).String(s)
	case TransformCapitalize:
		return cases.Title(language.Und, cases.NoLower).String(s)
	case TransformReverse:
		r := []rune(s)
		slices.Reverse(r)

		return string(r)
	default:
		return s
	}
}

// ToTextTransform converts an expression result to a [TextTransform].
func ToTextTransform(v any) (TextTransform, error) {
	switch t := v.(type) {
	case TextTransform:
		return t, nil
	case string:
		return ParseTextTransform(t)
	}

	return TransformNone, ErrConvert.With(
		slog.String("want", "text-transform"),
		slog.String("got", fmt.Sprintf("%T", v)),
	)
}
