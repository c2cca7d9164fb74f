// Package geom provides the integer geometry shared by the layout engines.
//
// All coordinates are integers with y growing downwards. An [Area] is
// inclusive on both corners, so Area{Min: Pt(0, 0), Max: Pt(0, 0)} covers
// exactly one unit cell.
//
// # Directions
//
// [Direction] models the eight compass points. Routing only uses the four
// cardinal directions; [Direction.Cardinal] collapses diagonals onto the
// vertical axis (NE becomes N, SW becomes S).
package geom
