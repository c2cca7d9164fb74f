package mosaic

// Sweep calls fn once for every live tile, starting with the tile in the
// bottom-right corner of the domain.
//
// Tiles form a forest under the TR stitch: every tile not touching the right
// edge of the domain has exactly one parent, the tile its TR stitch points
// at, and that parent lies strictly further right. Sweep walks the right
// edge upwards via RT and descends into each tile's children, which are the
// left-side neighbours whose TR stitch points back at it. No visited set is
// needed.
//
// Only the once-per-tile guarantee holds. Two consecutive calls need not be
// for adjacent tiles, and callers must not rely on the order.
func (m *Mosaic) Sweep(fn func(id TileID, t Tile)) {
	root := m.locate(m.domain.Max, m.hint)
	var stack []TileID
	for root != NoTile {
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			fn(id, m.tiles[id])
			m.forEachOnSide(id, sideLeft, func(n TileID) {
				if m.tiles[n].Stitches[TR] == id {
					stack = append(stack, n)
				}
			})
		}
		root = m.tiles[root].Stitches[RT]
	}
}
