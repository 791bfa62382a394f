package style

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/ardnew/labelfmt/pkg"
)

// Color is an 8-bit non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Transparent is the fully transparent color.
var Transparent = Color{}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xff} }

// ParseColor parses a color written as #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb(r,g,b), rgba(r,g,b,a), hsl(h,s%,l%), hsla(h,s%,l%,a), "transparent"
// or an SVG color name. Alpha components of rgba/hsla are in [0,1].
func ParseColor(s string) (Color, error) {
	text := strings.ToLower(strings.TrimSpace(s))

	fail := func(err error) (Color, error) {
		e := pkg.ErrInvalidColor.With(slog.String("color", s))
		if err != nil {
			e = e.Wrap(err)
		}

		return Color{}, e
	}

	switch {
	case text == "":
		return fail(nil)

	case text == "transparent":
		return Transparent, nil

	case strings.HasPrefix(text, "#"):
		c, err := parseHex(text)
		if err != nil {
			return fail(err)
		}

		return c, nil

	case strings.HasPrefix(text, "rgb"), strings.HasPrefix(text, "hsl"):
		c, err := parseFunc(text)
		if err != nil {
			return fail(err)
		}

		return c, nil
	}

	if named, ok := colornames.Map[text]; ok {
		return Color{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}

	return fail(nil)
}

// MustParseColor is like [ParseColor] but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}

	return c
}

func parseHex(text string) (Color, error) {
	digits := text[1:]

	var alpha uint8 = 0xff

	switch len(digits) {
	case 4:
		a, err := strconv.ParseUint(strings.Repeat(digits[3:], 2), 16, 8)
		if err != nil {
			return Color{}, err
		}

		alpha, digits = uint8(a), digits[:3]

	case 8:
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return Color{}, err
		}

		alpha, digits = uint8(a), digits[:6]
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, err
	}

	r, g, b := c.RGB255()

	return Color{R: r, G: g, B: b, A: alpha}, nil
}

func parseFunc(text string) (Color, error) {
	open := strings.IndexByte(text, '(')
	if open < 0 || !strings.HasSuffix(text, ")") {
		return Color{}, fmt.Errorf("malformed color function %q", text)
	}

	name := strings.TrimSpace(text[:open])
	args := strings.Split(text[open+1:len(text)-1], ",")

	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	want := 3
	if strings.HasSuffix(name, "a") {
		want = 4
	}

	if len(args) != want {
		return Color{}, fmt.Errorf("%s expects %d arguments, got %d",
			name, want, len(args))
	}

	alpha := uint8(0xff)

	if want == 4 {
		a, err := strconv.ParseFloat(args[3], 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, fmt.Errorf("alpha %q out of range", args[3])
		}

		alpha = uint8(a*255 + 0.5)
	}

	switch name {
	case "rgb", "rgba":
		var rgb [3]uint8

		for i := range rgb {
			n, err := strconv.ParseUint(args[i], 10, 8)
			if err != nil {
				return Color{}, fmt.Errorf("channel %q out of range", args[i])
			}

			rgb[i] = uint8(n)
		}

		return Color{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}, nil

	case "hsl", "hsla":
		h, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return Color{}, fmt.Errorf("hue %q: %w", args[0], err)
		}

		s, err := parsePercent(args[1])
		if err != nil {
			return Color{}, err
		}

		l, err := parsePercent(args[2])
		if err != nil {
			return Color{}, err
		}

		r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()

		return Color{R: r, G: g, B: b, A: alpha}, nil
	}

	return Color{}, fmt.Errorf("unknown color function %q", name)
}

func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || v < 0 || v > 100 {
		return 0, fmt.Errorf("percentage %q out of range", s)
	}

	return v / 100, nil
}

// Hex returns the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}

	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// String returns #rrggbb for opaque colors and rgba(r,g,b,a) otherwise.
func (c Color) String() string {
	if c.A == 0xff {
		return c.Hex()
	}

	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B,
		strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64))
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// ToColor converts an expression result to a [Color]. Strings are parsed
// with [ParseColor]; color.Color values are converted directly.
func ToColor(v any) (Color, error) {
	switch c := v.(type) {
	case Color:
		return c, nil
	case string:
		return ParseColor(c)
	case color.Color:
		n, _ := color.NRGBAModel.Convert(c).(color.NRGBA)

		return Color{R: n.R, G: n.G, B: n.B, A: n.A}, nil
	}

	return Color{}, ErrConvert.With(
		slog.String("want", "color"),
		slog.String("got", fmt.Sprintf("%T", v)),
	)
}
