// Package pkg provides the core libraries for gridstitch block diagram layout.
//
// # Overview
//
// Gridstitch turns a list of blocks and qualitative relationships between
// them ("Paper is left of Reviewer", "Conference is NE of Author") into a
// concrete drawing: every block gets a grid position and every connector an
// orthogonal route that bends around the blocks in its way.
//
// # Architecture
//
// The data flow through gridstitch:
//
//	TOML/JSON diagram
//	       ↓
//	  [diagram] package (parse + validate)
//	       ↓
//	  [constraint] package (difference constraints, Bellman-Ford)
//	       ↓
//	  [mosaic] package (corner-stitched occupancy map)
//	       ↓
//	  [maze] package (Lee wavefront routing)
//	       ↓
//	  layout JSON
//
// [pipeline] runs these stages in order and is shared by the CLI and the
// HTTP server, so both produce identical layouts for identical input.
//
// # Quick Start
//
//	d, _ := diagram.ReadFile("review.toml")
//	l, _ := pipeline.Layout(ctx, d, pipeline.Options{})
//	for _, b := range l.Blocks {
//	    fmt.Println(b.ID, b.Cell, b.Area)
//	}
//
// # Main Packages
//
// [geom] - Integer points, rectangles, segments and the compass directions
// used by every other package.
//
// [constraint] - Constraint graph over block coordinates. Relationships
// become pairs of difference constraints; contradictions surface as negative
// cycles and are either reported or resolved by dropping relationships.
//
// [mosaic] - Corner stitching. The canvas is covered by non-overlapping
// solid and space tiles, each linked to its neighbours by four stitches.
//
// [maze] - Lee router. Connectors are routed between block sides on a sparse
// cell grid with a preference for straight runs.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [observability] - Hooks for layout, cache and HTTP events.
//
// [errors] - Coded errors shared by the CLI and the server.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/gridstitch/pkg/geom
// [diagram]: https://pkg.go.dev/github.com/matzehuels/gridstitch/pkg/diagram
// [constraint]: https://pkg.go.dev/github.com/matzehuels/gridstitch/pkg/constraint
// [mosaic]: https://pkg.go.dev/github.com/matzehuels/gridstitch/pkg/mosaic
// [maze]: https://pkg.go.dev/github.com/matzehuels/gridstitch/pkg/maze
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gridstitch/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gridstitch/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/gridstitch/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/gridstitch/pkg/errors
package pkg
