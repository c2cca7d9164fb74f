// Package maze routes connectors between blocks on an integer grid using
// Lee's wavefront algorithm.
//
// A [Router] owns a sparse grid of cells. Blocks occupy single cells and are
// impassable. [Router.Route] scores every reachable cell with its hop count
// from the source, then backtracks from the target preferring to keep going
// straight, then to turn left, then right. The result is a [Path] of
// orthogonal line segments: a stub leaving the source block, the corners of
// the route, and a stub entering the target block.
//
// Routing never leaves the bounding box of the cells created so far, which
// is every block cell plus the endpoints of every route. A target that the
// wavefront cannot reach fails with UNREACHABLE_TARGET.
//
// A Router is meant for one layout pass and is not safe for concurrent use.
package maze
