package mosaic

import (
	"fmt"

	"github.com/matzehuels/gridstitch/pkg/geom"
)

// TileID addresses a tile in a Mosaic's arena.
type TileID int

// NoTile marks an absent stitch or a failed lookup.
const NoTile TileID = -1

// Stitch names one of a tile's eight corner references.
type Stitch int

const (
	LT Stitch = iota // leftmost tile above
	RT               // rightmost tile above
	TR               // topmost tile to the right
	BR               // bottommost tile to the right
	RB               // rightmost tile below
	LB               // leftmost tile below
	BL               // bottommost tile to the left
	TL               // topmost tile to the left

	numStitches
)

var stitchNames = [numStitches]string{"lt", "rt", "tr", "br", "rb", "lb", "bl", "tl"}

func (s Stitch) String() string {
	if s < 0 || s >= numStitches {
		return fmt.Sprintf("Stitch(%d)", int(s))
	}
	return stitchNames[s]
}

// Stitches lists all eight stitches in clockwise order from LT.
func Stitches() []Stitch {
	return []Stitch{LT, RT, TR, BR, RB, LB, BL, TL}
}

// stitchCell returns the cell whose owning tile stitch s of a refers to.
func stitchCell(a geom.Area, s Stitch) geom.Point {
	switch s {
	case LT:
		return geom.Pt(a.Min.X, a.Min.Y-1)
	case RT:
		return geom.Pt(a.Max.X, a.Min.Y-1)
	case TR:
		return geom.Pt(a.Max.X+1, a.Min.Y)
	case BR:
		return geom.Pt(a.Max.X+1, a.Max.Y)
	case RB:
		return geom.Pt(a.Max.X, a.Max.Y+1)
	case LB:
		return geom.Pt(a.Min.X, a.Max.Y+1)
	case BL:
		return geom.Pt(a.Min.X-1, a.Max.Y)
	case TL:
		return geom.Pt(a.Min.X-1, a.Min.Y)
	}
	panic(fmt.Sprintf("mosaic: invalid stitch %d", int(s)))
}

// Tile is one rectangle of the mosaic. Tiles returned by Mosaic accessors
// are copies; mutating them has no effect.
type Tile struct {
	Area     geom.Area
	Block    string // empty for spacers
	Stitches [numStitches]TileID

	live bool
}

// Solid reports whether the tile belongs to a block.
func (t Tile) Solid() bool {
	return t.Block != ""
}

// Stitch returns the tile referenced by s.
func (t Tile) Stitch(s Stitch) TileID {
	return t.Stitches[s]
}

func (t Tile) String() string {
	owner := t.Block
	if owner == "" {
		owner = "spacer"
	}
	return fmt.Sprintf("{%s / %s}", t.Area, owner)
}

func (t *Tile) clearStitches() {
	for i := range t.Stitches {
		t.Stitches[i] = NoTile
	}
}
