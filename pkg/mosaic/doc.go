// Package mosaic implements a corner-stitched tiling of the diagram plane.
//
// # Overview
//
// A [Mosaic] partitions a rectangular domain into non-overlapping tiles.
// Solid tiles belong to a block; spacer tiles are empty space. Spacers are
// kept as maximal horizontal strips: a spacer never has another spacer
// directly to its left or right, and two spacers stacked with the same
// x-extent are merged into one.
//
// Tiles live in an arena and are addressed by [TileID]. Each tile carries
// eight stitches, one per corner of each side:
//
//	      LT        RT
//	    +------------+
//	 TL |            | TR
//	    |    tile    |
//	 BL |            | BR
//	    +------------+
//	      LB        RB
//
// The first letter is the position along the side, the second the side
// itself. A stitch is the tile containing the cell just outside that corner;
// stitches that would leave the domain are [NoTile].
//
// # Operations
//
// [Mosaic.AddBlock] inserts a solid tile, splitting and re-merging the
// spacers it covers, and rejects overlapping placements with an OVERLAP
// error. [Mosaic.FindTileContaining] does point location by walking
// stitches. [Mosaic.ForEachNeighbour] walks the four sides of a tile.
// [Mosaic.Sweep] enumerates every tile exactly once starting from the
// bottom-right corner.
//
// Queries with malformed tile IDs, or a stitch chain that runs off the
// domain where it should not, panic: they indicate a bug, not bad input.
//
// Coordinates are inclusive and y grows downwards, matching [geom.Area].
package mosaic
