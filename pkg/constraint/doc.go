// Package constraint turns qualitative block relationships into integer
// coordinates using a difference-constraint graph solved with Bellman-Ford.
//
// # Overview
//
// Every block contributes two vertices, "<block>.x" and "<block>.y", each
// reachable from a shared "start" vertex over a zero-weight edge. A
// relationship such as "Paper is left of Reviewer" looks up an [Offset] in the
// direction table and adds, per axis, a forward edge of weight w and a
// backward edge of weight -w. Together the pair forces
//
//	to - from == w
//
// on that axis. Shortest-path distances from start are then the coordinates.
//
// # Basic Usage
//
//	g := constraint.New()
//	_ = g.AddVariable("Author")
//	_ = g.AddVariable("Paper")
//	_ = g.AddConstraint("Author", "Paper", "left")
//	x, y, err := g.Coordinate("Author")
//
// The graph is open while variables and relationships are added. The first
// call to [Graph.Coordinate] (or an explicit [Graph.Finalize]) solves it, and
// from then on it is read-only.
//
// # Contradictions
//
// Contradictory relationships form negative-weight cycles. After each
// relaxation the graph collects violated edges and hands them to a
// [CycleResolver]. The default [DropFirst] removes the first violation in
// vertex insertion order and retries, up to [DefaultMaxTrials] times; what
// remains is accepted as a best-effort solution and reported by
// [Graph.Dropped] and [Graph.Check]. [Strict] refuses to drop anything and
// fails with a NEGATIVE_CYCLE error instead.
//
// # Pins
//
// [Graph.Pin] fixes a block at an absolute position. Pins are expressed
// against a hidden origin vertex, and coordinates are translated so the
// origin reads (0, 0). Graphs without pins keep the raw distances.
package constraint
