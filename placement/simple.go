package placement

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/pkg"
	"github.com/ardnew/labelfmt/style"
)

// DefaultPositions is the positions spec of a new simple finder.
const DefaultPositions = "N,S,E,W"

// Simple is a finder that tries each direction of its positions spec, at
// each of its text sizes in turn.
type Simple struct {
	core

	directions []Direction
	sizes      []float64
}

// NewSimple returns a simple finder for the positions spec, a comma
// separated list of directions followed by optional text sizes, for
// example "N,S,E,W,12,10".
func NewSimple(positions string) (*Simple, error) {
	s := &Simple{}
	if err := s.SetPositions(positions); err != nil {
		return nil, err
	}

	return s, nil
}

// Kind returns [KindSimple].
func (s *Simple) Kind() Kind { return KindSimple }

// SetPositions replaces the directions and sizes tried by s.
func (s *Simple) SetPositions(positions string) error {
	dirs, sizes, err := ParsePositions(positions)
	if err != nil {
		return err
	}

	s.directions, s.sizes = dirs, sizes

	return nil
}

// Positions returns the positions spec of s.
func (s *Simple) Positions() string {
	parts := make([]string, 0, len(s.directions)+len(s.sizes))

	for _, d := range s.directions {
		parts = append(parts, d.String())
	}

	for _, size := range s.sizes {
		parts = append(parts, strconv.FormatFloat(size, 'f', -1, 64))
	}

	return strings.Join(parts, ",")
}

// Candidates returns one candidate per direction for the first size, then
// for the next size, and so on. Without sizes, every direction is tried
// once with the finder's own text size. Each candidate owns an independent
// copy of the defaults.
func (s *Simple) Candidates() []Candidate {
	sizes := s.sizes
	if len(sizes) == 0 {
		sizes = []float64{0}
	}

	out := make([]Candidate, 0, len(sizes)*len(s.directions))

	for _, size := range sizes {
		for _, d := range s.directions {
			c := Candidate{Direction: d, Defaults: s.defaults.Clone()}
			if size > 0 {
				c.Defaults.TextSize.SetLiteral(size)
			}

			out = append(out, c)
		}
	}

	return out
}

// Render renders the format tree for one feature with the finder's own
// defaults. Use [Candidate.Render] to render a specific candidate.
func (s *Simple) Render(
	ctx context.Context,
	attrs lang.Attributes,
	opts ...format.Option,
) ([]format.Run, error) {
	return s.render(ctx, s.defaults, attrs, opts...)
}

// Get extends the key table with "positions".
func (s *Simple) Get(key string) (style.Extracted, error) {
	if key == PositionsKey {
		return style.Extracted{Kind: style.KindLiteral, Value: s.Positions()}, nil
	}

	return s.core.Get(key)
}

// Set extends the key table with "positions".
func (s *Simple) Set(key, text string) error {
	if key == PositionsKey {
		return s.SetPositions(text)
	}

	return s.core.Set(key, text)
}

// Keys extends the key table with "positions".
func (s *Simple) Keys() []string { return append(s.core.Keys(), PositionsKey) }

// PositionsKey is the key-table name of the positions spec of a simple
// finder.
const PositionsKey = "positions"

// ParsePositions parses a positions spec into its directions and sizes.
// Directions come first and at least one is required; sizes must be
// positive.
func ParsePositions(spec string) ([]Direction, []float64, error) {
	var (
		dirs  []Direction
		sizes []float64
	)

	fail := func(token, reason string) ([]Direction, []float64, error) {
		return nil, nil, pkg.ErrInvalidPositions.With(
			slog.String("positions", spec),
			slog.String("token", token),
			slog.String("reason", reason),
		)
	}

	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return fail(tok, "empty entry")
		}

		if size, err := strconv.ParseFloat(tok, 64); err == nil {
			if style.ValidateTextSize(size) != nil {
				return fail(tok, "size must be positive and finite")
			}

			sizes = append(sizes, size)

			continue
		}

		d, err := ParseDirection(tok)
		if err != nil {
			return fail(tok, "unknown direction")
		}

		if len(sizes) > 0 {
			return fail(tok, "direction after size")
		}

		dirs = append(dirs, d)
	}

	if len(dirs) == 0 {
		return fail(spec, "no direction")
	}

	return dirs, sizes, nil
}
