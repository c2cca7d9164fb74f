package mosaic

import (
	"fmt"

	"github.com/matzehuels/gridstitch/pkg/geom"
)

// CheckStitches verifies every stitch of every live tile against a brute
// force lookup of its target cell. It returns one line per wrong stitch; an
// empty result means the stitches are consistent.
func (m *Mosaic) CheckStitches() []string {
	var problems []string
	m.ForEachTile(func(id TileID, t Tile) {
		for _, s := range Stitches() {
			want := m.scan(stitchCell(t.Area, s))
			if got := t.Stitches[s]; got != want {
				problems = append(problems, fmt.Sprintf("tile %d %v: %s = %s, want %s",
					id, t, s, m.describe(got), m.describe(want)))
			}
		}
	})
	return problems
}

// CheckCoverage verifies that live tiles cover the domain exactly once.
func (m *Mosaic) CheckCoverage() []string {
	var problems []string
	var ids []TileID
	total := 0
	m.ForEachTile(func(id TileID, t Tile) {
		if !m.domain.ContainsArea(t.Area) {
			problems = append(problems, fmt.Sprintf("tile %d %v leaves the domain", id, t))
		}
		total += t.Area.Size()
		ids = append(ids, id)
	})
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if m.tiles[a].Area.Intersects(m.tiles[b].Area) {
				problems = append(problems, fmt.Sprintf("tiles %d %v and %d %v overlap",
					a, m.tiles[a], b, m.tiles[b]))
			}
		}
	}
	if total != m.domain.Size() {
		problems = append(problems, fmt.Sprintf("tiles cover %d cells, domain has %d", total, m.domain.Size()))
	}
	return problems
}

// CheckStrips verifies that spacers form maximal horizontal strips: no
// spacer has a spacer to its left or right, and no two spacers with the
// same x-extent are stacked.
func (m *Mosaic) CheckStrips() []string {
	var problems []string
	m.ForEachTile(func(id TileID, t Tile) {
		if t.Solid() {
			return
		}
		m.ForEachNeighbour(id, func(n TileID) {
			o := m.tiles[n]
			if o.Solid() {
				return
			}
			switch {
			case o.Area.Min.X == t.Area.Max.X+1:
				problems = append(problems, fmt.Sprintf("spacer %d %v has spacer %d %v to its right", id, t, n, o))
			case o.Area.Max.Y+1 == t.Area.Min.Y && o.Area.Min.X == t.Area.Min.X && o.Area.Max.X == t.Area.Max.X:
				problems = append(problems, fmt.Sprintf("spacer %d %v can merge with spacer %d %v above", id, t, n, o))
			}
		})
	})
	return problems
}

// scan finds the tile covering p by linear search.
func (m *Mosaic) scan(p geom.Point) TileID {
	if !m.domain.Contains(p) {
		return NoTile
	}
	for i := range m.tiles {
		if m.tiles[i].live && m.tiles[i].Area.Contains(p) {
			return TileID(i)
		}
	}
	return NoTile
}

func (m *Mosaic) describe(id TileID) string {
	if id == NoTile {
		return "none"
	}
	if id < 0 || int(id) >= len(m.tiles) || !m.tiles[id].live {
		return fmt.Sprintf("dead(%d)", id)
	}
	return fmt.Sprintf("%d %v", id, m.tiles[id])
}
