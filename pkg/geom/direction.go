package geom

import (
	"encoding"
	"fmt"
	"strings"
)

// Direction is one of the eight compass points, clockwise from north.
type Direction int

const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

var directionNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// y grows downwards, so north is negative.
var directionDeltas = [...]Point{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// ParseDirection parses a compass name such as "N" or "sw".
func ParseDirection(s string) (Direction, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range directionNames {
		if name == up {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown compass direction %q", s)
}

// Valid reports whether d is one of the eight defined directions.
func (d Direction) Valid() bool {
	return d >= N && d <= NW
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Delta returns the unit step in direction d.
func (d Direction) Delta() Point {
	return directionDeltas[d]
}

// Opposite returns the direction rotated by 180 degrees.
func (d Direction) Opposite() Direction {
	return (d + 4) % 8
}

// Left returns the direction a quarter turn anticlockwise.
func (d Direction) Left() Direction {
	return (d + 6) % 8
}

// Right returns the direction a quarter turn clockwise.
func (d Direction) Right() Direction {
	return (d + 2) % 8
}

// IsCardinal reports whether d is N, E, S or W.
func (d Direction) IsCardinal() bool {
	return d%2 == 0
}

// Cardinal maps d onto a cardinal direction by its leading letter.
func (d Direction) Cardinal() Direction {
	switch d {
	case NE, NW:
		return N
	case SE, SW:
		return S
	}
	return d
}

// Vertical reports whether d is N or S.
func (d Direction) Vertical() bool {
	return d == N || d == S
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

var (
	_ encoding.TextMarshaler   = Direction(0)
	_ encoding.TextUnmarshaler = (*Direction)(nil)
)
