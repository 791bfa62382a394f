package placement

import (
	"log/slog"
	"strings"

	"github.com/ardnew/labelfmt/pkg"
)

// Direction is the side of the anchor point a label is placed on.
type Direction uint8

// Placement directions.
const (
	Center Direction = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionNames = [...]string{
	Center:    "C",
	North:     "N",
	NorthEast: "NE",
	East:      "E",
	SouthEast: "SE",
	South:     "S",
	SouthWest: "SW",
	West:      "W",
	NorthWest: "NW",
}

// Unit offsets in screen coordinates (y grows down).
var directionOffsets = [...][2]int{
	Center:    {0, 0},
	North:     {0, -1},
	NorthEast: {1, -1},
	East:      {1, 0},
	SouthEast: {1, 1},
	South:     {0, 1},
	SouthWest: {-1, 1},
	West:      {-1, 0},
	NorthWest: {-1, -1},
}

// ParseDirection parses a compass direction such as "N" or "sw".
func ParseDirection(s string) (Direction, error) {
	name := strings.ToUpper(strings.TrimSpace(s))

	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}

	return Center, pkg.ErrInvalidPositions.With(slog.String("direction", s))
}

// String returns the compass abbreviation of d.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}

	return "?"
}

// Offset returns the unit displacement of d from the anchor point.
func (d Direction) Offset() (dx, dy int) {
	if int(d) >= len(directionOffsets) {
		return 0, 0
	}

	o := directionOffsets[d]

	return o[0], o[1]
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
