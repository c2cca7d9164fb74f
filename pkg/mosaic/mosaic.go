package mosaic

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gridstitch/pkg/errors"
	"github.com/matzehuels/gridstitch/pkg/geom"
)

// Option configures a Mosaic.
type Option func(*Mosaic)

// WithLogger sets the logger used for split diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(m *Mosaic) {
		if l != nil {
			m.logger = l
		}
	}
}

// Mosaic is a corner-stitched tiling of a rectangular domain.
// It is not safe for concurrent use.
type Mosaic struct {
	domain geom.Area
	tiles  []Tile
	free   []TileID
	blocks map[string]TileID
	hint   TileID
	logger *log.Logger
}

// New creates a mosaic holding a single spacer that covers domain.
// It panics if domain is not a valid area.
func New(domain geom.Area, opts ...Option) *Mosaic {
	if !domain.Valid() {
		panic(fmt.Sprintf("mosaic: invalid domain %v", domain))
	}
	m := &Mosaic{
		domain: domain,
		blocks: make(map[string]TileID),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.hint = m.alloc(domain, "")
	return m
}

// Domain returns the area covered by the mosaic.
func (m *Mosaic) Domain() geom.Area {
	return m.domain
}

// TileCount returns the number of live tiles.
func (m *Mosaic) TileCount() int {
	return len(m.tiles) - len(m.free)
}

// Tile returns a copy of the tile with the given ID.
func (m *Mosaic) Tile(id TileID) Tile {
	return *m.tile(id)
}

// Block returns the solid tile owned by block, or NoTile.
func (m *Mosaic) Block(block string) TileID {
	if id, ok := m.blocks[block]; ok {
		return id
	}
	return NoTile
}

// ForEachTile calls fn for every live tile in ID order.
func (m *Mosaic) ForEachTile(fn func(id TileID, t Tile)) {
	for i := range m.tiles {
		if m.tiles[i].live {
			fn(TileID(i), m.tiles[i])
		}
	}
}

func (m *Mosaic) tile(id TileID) *Tile {
	if id < 0 || int(id) >= len(m.tiles) || !m.tiles[id].live {
		panic(fmt.Sprintf("mosaic: no live tile %d", id))
	}
	return &m.tiles[id]
}

func (m *Mosaic) alloc(area geom.Area, block string) TileID {
	t := Tile{Area: area, Block: block, live: true}
	t.clearStitches()
	if n := len(m.free); n > 0 {
		id := m.free[n-1]
		m.free = m.free[:n-1]
		m.tiles[id] = t
		return id
	}
	m.tiles = append(m.tiles, t)
	return TileID(len(m.tiles) - 1)
}

func (m *Mosaic) release(id TileID) {
	t := m.tile(id)
	if t.Solid() {
		delete(m.blocks, t.Block)
	}
	*t = Tile{}
	m.free = append(m.free, id)
}

// =============================================================================
// Point location
// =============================================================================

// FindTileContaining returns the tile covering p, or NoTile if p lies
// outside the domain.
func (m *Mosaic) FindTileContaining(p geom.Point) TileID {
	id := m.locate(p, m.hint)
	if id != NoTile {
		m.hint = id
	}
	return id
}

// locate walks stitches from start towards p: vertically first (up via RT,
// down via LB), then horizontally (left via BL, right via TR), repeating
// until p is inside the current tile.
func (m *Mosaic) locate(p geom.Point, start TileID) TileID {
	if !m.domain.Contains(p) {
		return NoTile
	}
	if start == NoTile || !m.tiles[start].live {
		start = m.anyTile()
	}
	id := start
	limit := len(m.tiles)*len(m.tiles) + 16
	for steps := 0; ; steps++ {
		if steps > limit {
			panic(fmt.Sprintf("mosaic: point location for %v does not converge", p))
		}
		a := m.tiles[id].Area
		switch {
		case p.Y < a.Min.Y:
			id = m.follow(id, RT)
		case p.Y > a.Max.Y:
			id = m.follow(id, LB)
		case p.X < a.Min.X:
			id = m.follow(id, BL)
		case p.X > a.Max.X:
			id = m.follow(id, TR)
		default:
			return id
		}
	}
}

func (m *Mosaic) follow(id TileID, s Stitch) TileID {
	next := m.tiles[id].Stitches[s]
	if next == NoTile {
		panic(fmt.Sprintf("mosaic: stitch %s of tile %d %v runs off the domain", s, id, m.tiles[id].Area))
	}
	return next
}

func (m *Mosaic) anyTile() TileID {
	for i := range m.tiles {
		if m.tiles[i].live {
			return TileID(i)
		}
	}
	panic("mosaic: no live tiles")
}

// =============================================================================
// Area search
// =============================================================================

// FindSolidTileWithinArea returns a solid tile intersecting area, or NoTile
// if area holds only spacers. The search starts at the bottom-left corner
// and scans each row band left to right before stepping up past the lowest
// top edge seen in that band, so it visits every tile touching area at most
// once per band and always terminates.
func (m *Mosaic) FindSolidTileWithinArea(area geom.Area) TileID {
	if !area.Valid() {
		return NoTile
	}
	area = clip(area, m.domain)
	if !area.Valid() {
		return NoTile
	}

	hint := m.hint
	y := area.Max.Y
	for y >= area.Min.Y {
		top := area.Min.Y
		for x := area.Min.X; x <= area.Max.X; {
			id := m.locate(geom.Pt(x, y), hint)
			t := &m.tiles[id]
			if t.Solid() {
				return id
			}
			top = max(top, t.Area.Min.Y)
			x = t.Area.Max.X + 1
			hint = id
		}
		y = top - 1
	}
	return NoTile
}

func clip(a, b geom.Area) geom.Area {
	return geom.Area{
		Min: geom.Pt(max(a.Min.X, b.Min.X), max(a.Min.Y, b.Min.Y)),
		Max: geom.Pt(min(a.Max.X, b.Max.X), min(a.Max.Y, b.Max.Y)),
	}
}

// =============================================================================
// Neighbours
// =============================================================================

type side int

const (
	sideRight side = iota
	sideBottom
	sideLeft
	sideTop
)

// walk describes how to traverse one side: from the first stitch to the
// last, stepping with the given stitch of each visited neighbour.
var walks = [4]struct{ first, last, step Stitch }{
	sideRight:  {TR, BR, LB},
	sideBottom: {RB, LB, TL},
	sideLeft:   {BL, TL, RT},
	sideTop:    {LT, RT, BR},
}

func (m *Mosaic) forEachOnSide(id TileID, s side, fn func(TileID)) {
	t := m.tile(id)
	w := walks[s]
	cur, end := t.Stitches[w.first], t.Stitches[w.last]
	if cur == NoTile {
		return
	}
	for steps := 0; ; steps++ {
		if steps > len(m.tiles) {
			panic(fmt.Sprintf("mosaic: side walk of tile %d %v does not terminate", id, t.Area))
		}
		fn(cur)
		if cur == end {
			return
		}
		next := m.tiles[cur].Stitches[w.step]
		if next == NoTile {
			panic(fmt.Sprintf("mosaic: broken stitch chain on tile %d %v at %d", id, t.Area, cur))
		}
		cur = next
	}
}

// ForEachNeighbour calls fn for every tile sharing an edge with id, walking
// the right, bottom, left and top sides in that order. Corner-only contacts
// are not neighbours.
func (m *Mosaic) ForEachNeighbour(id TileID, fn func(TileID)) {
	for s := sideRight; s <= sideTop; s++ {
		m.forEachOnSide(id, s, fn)
	}
}

// =============================================================================
// Insertion
// =============================================================================

// AddBlock inserts a solid tile for block covering area and returns its ID.
//
// It fails with OVERLAP if a solid tile already intersects area, leaving the
// mosaic untouched, and with INVALID_INPUT for empty block IDs, duplicate
// blocks or areas outside the domain.
func (m *Mosaic) AddBlock(area geom.Area, block string) (TileID, error) {
	if block == "" {
		return NoTile, errs.New(errs.ErrCodeInvalidInput, "block id cannot be empty")
	}
	if _, dup := m.blocks[block]; dup {
		return NoTile, errs.New(errs.ErrCodeDuplicate, "block %q already placed", block)
	}
	if !area.Valid() || !m.domain.ContainsArea(area) {
		return NoTile, errs.New(errs.ErrCodeInvalidInput, "block %q area %v is outside the domain %v", block, area, m.domain)
	}
	if hit := m.FindSolidTileWithinArea(area); hit != NoTile {
		other := m.tiles[hit]
		return NoTile, errs.New(errs.ErrCodeOverlap, "block %q at %v overlaps block %q at %v",
			block, area, other.Block, other.Area)
	}

	strips := m.stripsCovering(area)
	pieces, absorbed := m.plan(area, block, strips)

	removed := append(slices.Clone(strips), absorbed...)
	neighbours := m.collectNeighbours(removed)

	for _, id := range removed {
		m.release(id)
	}
	ids := make([]TileID, len(pieces))
	solid := NoTile
	for i, p := range pieces {
		ids[i] = m.alloc(p.Area, p.Block)
		if p.Block != "" {
			solid = ids[i]
		}
	}
	m.blocks[block] = solid

	others := append(neighbours, ids...)
	for _, a := range ids {
		for _, b := range others {
			if a != b {
				m.updateMutualStitches(a, b)
			}
		}
	}
	m.hint = solid

	m.logger.Debug("inserted block",
		"block", block,
		"area", area.String(),
		"strips", len(strips),
		"merged", len(absorbed),
		"tiles", m.TileCount())
	return solid, nil
}

// stripsCovering returns the spacers overlapping area from top to bottom.
// Every such spacer spans area's full width because spacers are maximal
// horizontally and area holds no solid tile.
func (m *Mosaic) stripsCovering(area geom.Area) []TileID {
	var strips []TileID
	hint := m.hint
	for y := area.Min.Y; y <= area.Max.Y; {
		id := m.locate(geom.Pt(area.Min.X, y), hint)
		t := m.tiles[id]
		if t.Area.Min.X > area.Min.X || t.Area.Max.X < area.Max.X {
			panic(fmt.Sprintf("mosaic: spacer %v does not span %v", t.Area, area))
		}
		strips = append(strips, id)
		y = t.Area.Max.Y + 1
		hint = id
	}
	return strips
}

type piece struct {
	Area  geom.Area
	Block string
}

// plan computes the replacement tiles for strips once area is carved out,
// plus any pre-existing spacers that merge into them.
func (m *Mosaic) plan(area geom.Area, block string, strips []TileID) ([]piece, []TileID) {
	first := m.tiles[strips[0]].Area
	last := m.tiles[strips[len(strips)-1]].Area

	var pieces []piece
	if first.Min.Y < area.Min.Y {
		pieces = append(pieces, piece{Area: geom.Area{
			Min: first.Min,
			Max: geom.Pt(first.Max.X, area.Min.Y-1),
		}})
	}

	var left, right []geom.Area
	for _, id := range strips {
		s := m.tiles[id].Area
		y0, y1 := max(s.Min.Y, area.Min.Y), min(s.Max.Y, area.Max.Y)
		if s.Min.X < area.Min.X {
			left = appendBand(left, geom.Area{Min: geom.Pt(s.Min.X, y0), Max: geom.Pt(area.Min.X-1, y1)})
		}
		if s.Max.X > area.Max.X {
			right = appendBand(right, geom.Area{Min: geom.Pt(area.Max.X+1, y0), Max: geom.Pt(s.Max.X, y1)})
		}
	}

	var absorbed []TileID
	openTop := first.Min.Y == area.Min.Y
	openBottom := last.Max.Y == area.Max.Y
	for _, bands := range [][]geom.Area{left, right} {
		if len(bands) == 0 {
			continue
		}
		if openTop {
			if id := m.mergeable(bands[0], bands[0].Min.Y-1); id != NoTile {
				bands[0].Min.Y = m.tiles[id].Area.Min.Y
				absorbed = append(absorbed, id)
			}
		}
		if openBottom {
			n := len(bands) - 1
			if id := m.mergeable(bands[n], bands[n].Max.Y+1); id != NoTile {
				bands[n].Max.Y = m.tiles[id].Area.Max.Y
				absorbed = append(absorbed, id)
			}
		}
		for _, b := range bands {
			pieces = append(pieces, piece{Area: b})
		}
	}

	pieces = append(pieces, piece{Area: area, Block: block})

	if last.Max.Y > area.Max.Y {
		pieces = append(pieces, piece{Area: geom.Area{
			Min: geom.Pt(last.Min.X, area.Max.Y+1),
			Max: last.Max,
		}})
	}
	return pieces, absorbed
}

// appendBand adds b below the previous band, merging the two when their
// x-extents match.
func appendBand(bands []geom.Area, b geom.Area) []geom.Area {
	if n := len(bands); n > 0 {
		prev := &bands[n-1]
		if prev.Min.X == b.Min.X && prev.Max.X == b.Max.X && prev.Max.Y+1 == b.Min.Y {
			prev.Max.Y = b.Max.Y
			return bands
		}
	}
	return append(bands, b)
}

// mergeable returns the spacer at row y that has exactly band's x-extent.
func (m *Mosaic) mergeable(band geom.Area, y int) TileID {
	if y < m.domain.Min.Y || y > m.domain.Max.Y {
		return NoTile
	}
	id := m.locate(geom.Pt(band.Min.X, y), m.hint)
	t := m.tiles[id]
	if t.Solid() || t.Area.Min.X != band.Min.X || t.Area.Max.X != band.Max.X {
		return NoTile
	}
	return id
}

func (m *Mosaic) collectNeighbours(removed []TileID) []TileID {
	gone := make(map[TileID]bool, len(removed))
	for _, id := range removed {
		gone[id] = true
	}
	seen := make(map[TileID]bool)
	var out []TileID
	for _, id := range removed {
		m.ForEachNeighbour(id, func(n TileID) {
			if !gone[n] && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		})
	}
	return out
}

// updateMutualStitches points each of a's stitches at b when b covers the
// stitch's target cell, and vice versa.
func (m *Mosaic) updateMutualStitches(a, b TileID) {
	ta, tb := m.tile(a), m.tile(b)
	for s := range numStitches {
		if tb.Area.Contains(stitchCell(ta.Area, s)) {
			ta.Stitches[s] = b
		}
		if ta.Area.Contains(stitchCell(tb.Area, s)) {
			tb.Stitches[s] = a
		}
	}
}
