package constraint

import (
	"maps"
	"slices"

	errs "github.com/matzehuels/gridstitch/pkg/errors"
	"github.com/matzehuels/gridstitch/pkg/geom"
)

// Offset is the displacement a relationship imposes from one block to the
// other, in grid units. Both axes are always constrained.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Compass returns the compass direction pointing from the source block to
// the target block.
func (o Offset) Compass() geom.Direction {
	switch {
	case o.X == 0 && o.Y < 0:
		return geom.N
	case o.X > 0 && o.Y < 0:
		return geom.NE
	case o.X > 0 && o.Y == 0:
		return geom.E
	case o.X > 0:
		return geom.SE
	case o.X == 0 && o.Y > 0:
		return geom.S
	case o.X < 0 && o.Y > 0:
		return geom.SW
	case o.X < 0 && o.Y == 0:
		return geom.W
	}
	return geom.NW
}

// The relative words ("left", "above") place the source one unit away from
// the target; compass names leave a free grid line in between.
var directions = map[string]Offset{
	"left":  {X: 1, Y: 0},
	"right": {X: -1, Y: 0},
	"above": {X: 0, Y: -1},
	"below": {X: 0, Y: 1},
	"N":     {X: 0, Y: -2},
	"NE":    {X: 2, Y: -2},
	"E":     {X: 2, Y: 0},
	"SE":    {X: 2, Y: 2},
	"S":     {X: 0, Y: 2},
	"SW":    {X: -2, Y: 2},
	"W":     {X: -2, Y: 0},
	"NW":    {X: -2, Y: -2},
	"U":     {X: 1, Y: -1},
	"D":     {X: -1, Y: 1},
}

// Lookup returns the offset for a qualitative direction name.
func Lookup(direction string) (Offset, error) {
	off, ok := directions[direction]
	if !ok {
		return Offset{}, errs.New(errs.ErrCodeUnrecognizedDirection, "unrecognized direction: %q", direction)
	}
	return off, nil
}

// Directions lists every recognized direction name in sorted order.
func Directions() []string {
	return slices.Sorted(maps.Keys(directions))
}
