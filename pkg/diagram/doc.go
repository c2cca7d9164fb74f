// Package diagram defines the block diagram document and the layout result.
//
// # Input
//
// A [Diagram] lists blocks and the connectors between them. Each connector
// carries a qualitative direction ("left", "above", "NE", ...) that both
// constrains where its target block is placed relative to its source and
// picks the side the routed line leaves the source by. Documents are TOML or
// JSON:
//
//	title = "Review process"
//
//	[[blocks]]
//	id = "Author"
//
//	[[blocks]]
//	id = "Paper"
//	x = 0
//	y = 0
//
//	[[connectors]]
//	from = "Author"
//	to = "Paper"
//	direction = "left"
//	entry = "W"
//
// A block may be pinned by giving both x and y. A connector may override the
// exit side with "exit" and the entry side with "entry"; by default the exit
// follows the direction and the entry is its opposite.
//
// Use [ReadFile] or [Parse] to load and validate a document.
//
// # Output
//
// A [Layout] is the serialized result of laying out a diagram: solved block
// positions, their grid cells and pixel areas, routed connector polylines,
// the tiles of the occupancy mosaic and any relationships dropped to break
// contradictions. See [MarshalLayout] and [UnmarshalLayout].
package diagram
