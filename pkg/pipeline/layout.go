package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gridstitch/pkg/constraint"
	"github.com/matzehuels/gridstitch/pkg/diagram"
	errs "github.com/matzehuels/gridstitch/pkg/errors"
	"github.com/matzehuels/gridstitch/pkg/geom"
	"github.com/matzehuels/gridstitch/pkg/maze"
	"github.com/matzehuels/gridstitch/pkg/mosaic"
	"github.com/matzehuels/gridstitch/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// Stages holds the engines of a completed layout pass, for callers that
// want to inspect more than the serialized layout.
type Stages struct {
	Graph  *constraint.Graph
	Mosaic *mosaic.Mosaic
	Router *maze.Router
	Layout diagram.Layout
}

// Layout lays out d without caching.
func Layout(ctx context.Context, d *diagram.Diagram, opts Options) (diagram.Layout, error) {
	s, err := Run(ctx, d, opts)
	if err != nil {
		return diagram.Layout{}, err
	}
	return s.Layout, nil
}

// Run performs a full solve, tile and route pass over d.
func Run(ctx context.Context, d *diagram.Diagram, opts Options) (*Stages, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Layout()
	start := time.Now()
	hooks.OnLayoutStart(ctx, len(d.Blocks), len(d.Connectors))
	s, err := run(ctx, d, &opts)
	hooks.OnLayoutComplete(ctx, len(d.Blocks), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("laid out diagram",
		"blocks", len(s.Layout.Blocks),
		"connectors", len(s.Layout.Connectors),
		"tiles", len(s.Layout.Tiles),
		"dropped", len(s.Layout.Dropped),
		"duration", time.Since(start))
	return s, nil
}

func run(ctx context.Context, d *diagram.Diagram, opts *Options) (*Stages, error) {
	g, err := Solve(ctx, d, *opts)
	if err != nil {
		return nil, err
	}
	placements, err := g.Placements()
	if err != nil {
		return nil, err
	}

	grid, err := newGrid(placements, opts)
	if err != nil {
		return nil, err
	}
	l := diagram.Layout{
		ID:     uuid.NewString(),
		Title:  d.Title,
		Width:  grid.Columns * grid.CellWidth,
		Height: grid.Rows * grid.CellHeight,
		Grid:   grid.Grid,
		Trials: g.Trials(),
	}
	for _, v := range g.Dropped() {
		l.Dropped = append(l.Dropped, v.Describe())
	}
	for _, p := range placements {
		b, _ := d.Block(p.Name)
		cell := grid.cell(p)
		l.Blocks = append(l.Blocks, diagram.PlacedBlock{
			ID:       p.Name,
			Position: geom.Pt(p.X, p.Y),
			Cell:     cell,
			Area:     grid.blockArea(cell),
			Pinned:   b.Pinned(),
		})
	}

	m, err := tile(grid, l.Blocks, opts)
	if err != nil {
		return nil, err
	}
	m.Sweep(func(_ mosaic.TileID, t mosaic.Tile) {
		l.Tiles = append(l.Tiles, diagram.Tile{Area: t.Area, Block: t.Block})
	})

	r, routed, err := route(ctx, d, grid, l.Blocks, opts)
	if err != nil {
		return nil, err
	}
	l.Connectors = routed

	return &Stages{Graph: g, Mosaic: m, Router: r, Layout: l}, nil
}

// =============================================================================
// Solve
// =============================================================================

// Solve builds the constraint graph of d and finalizes it. With
// Options.Strict a contradiction fails with NEGATIVE_CYCLE; otherwise
// contradictory relationships are dropped and listed by Graph.Dropped.
func Solve(ctx context.Context, d *diagram.Diagram, opts Options) (*constraint.Graph, error) {
	opts.SetDefaults()
	g := constraint.New(
		constraint.WithResolver(opts.resolver()),
		constraint.WithLogger(opts.Logger),
		constraint.WithMaxTrials(opts.MaxTrials),
	)
	for _, b := range d.Blocks {
		if err := g.AddVariable(b.ID); err != nil {
			return nil, err
		}
		if b.Pinned() {
			if err := g.Pin(b.ID, *b.X, *b.Y); err != nil {
				return nil, err
			}
		}
	}
	for _, c := range d.Connectors {
		if err := g.AddConstraint(c.From, c.To, c.Direction); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	err := g.Finalize()
	observability.Layout().OnSolveComplete(ctx, g.Trials(), len(g.Dropped()), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// =============================================================================
// Grid
// =============================================================================

// grid maps solved positions onto routing cells and pixels. Positions are
// shifted so the smallest lands on the margin, then multiplied by the grid
// scale; cell (x, y) covers the pixels from (x*CellWidth, y*CellHeight).
type grid struct {
	diagram.Grid
	origin      geom.Point
	margin      int
	blockWidth  int
	blockHeight int
}

func newGrid(placements []constraint.Placement, opts *Options) (grid, error) {
	lo, hi := geom.Pt(placements[0].X, placements[0].Y), geom.Pt(placements[0].X, placements[0].Y)
	for _, p := range placements[1:] {
		lo = geom.Pt(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = geom.Pt(max(hi.X, p.X), max(hi.Y, p.Y))
	}
	span := hi.Sub(lo)
	cols, okX := gridExtent(span.X, opts)
	rows, okY := gridExtent(span.Y, opts)
	if !okX || !okY || cols > MaxGridCells/rows {
		return grid{}, errs.New(errs.ErrCodeInvalidInput,
			"layout spans %dx%d positions at scale %d, more than %d routing cells",
			span.X+1, span.Y+1, opts.GridScale, MaxGridCells)
	}
	return grid{
		Grid: diagram.Grid{
			Columns:    cols,
			Rows:       rows,
			Scale:      opts.GridScale,
			CellWidth:  opts.CellWidth,
			CellHeight: opts.CellHeight,
		},
		origin:      lo,
		margin:      opts.Margin,
		blockWidth:  opts.BlockWidth,
		blockHeight: opts.BlockHeight,
	}, nil
}

// gridExtent is the number of cells along one axis for a position span. The
// bound is checked before scaling so the product cannot overflow.
func gridExtent(span int, opts *Options) (int, bool) {
	if span < 0 || span > (MaxGridCells-1-2*opts.Margin)/opts.GridScale {
		return 0, false
	}
	return span*opts.GridScale + 1 + 2*opts.Margin, true
}

func (g grid) cell(p constraint.Placement) geom.Point {
	return geom.Pt(p.X, p.Y).Sub(g.origin).Scale(g.Scale).Add(geom.Pt(g.margin, g.margin))
}

// cells is the routing area.
func (g grid) cells() geom.Area {
	return geom.Rect(0, 0, g.Columns-1, g.Rows-1)
}

// pixels is the mosaic domain.
func (g grid) pixels() geom.Area {
	return geom.Rect(0, 0, g.Columns*g.CellWidth-1, g.Rows*g.CellHeight-1)
}

// blockArea is the block box centred in cell.
func (g grid) blockArea(cell geom.Point) geom.Area {
	x := cell.X*g.CellWidth + (g.CellWidth-g.blockWidth)/2
	y := cell.Y*g.CellHeight + (g.CellHeight-g.blockHeight)/2
	return geom.Rect(x, y, x+g.blockWidth-1, y+g.blockHeight-1)
}

// center is the pixel at the middle of cell.
func (g grid) center(cell geom.Point) geom.Point {
	return geom.Pt(cell.X*g.CellWidth+g.CellWidth/2, cell.Y*g.CellHeight+g.CellHeight/2)
}

// anchor moves the cell centre c onto side d of the block box, keeping the
// stub that leaves the block orthogonal.
func anchor(box geom.Area, d geom.Direction, c geom.Point) geom.Point {
	switch d {
	case geom.N:
		return geom.Pt(c.X, box.Min.Y)
	case geom.S:
		return geom.Pt(c.X, box.Max.Y)
	case geom.E:
		return geom.Pt(box.Max.X, c.Y)
	case geom.W:
		return geom.Pt(box.Min.X, c.Y)
	}
	return c
}

// =============================================================================
// Tile
// =============================================================================

func tile(g grid, blocks []diagram.PlacedBlock, opts *Options) (*mosaic.Mosaic, error) {
	m := mosaic.New(g.pixels(), mosaic.WithLogger(opts.Logger))
	for _, b := range blocks {
		if _, err := m.AddBlock(b.Area, b.ID); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// =============================================================================
// Route
// =============================================================================

func route(ctx context.Context, d *diagram.Diagram, g grid, blocks []diagram.PlacedBlock, opts *Options) (*maze.Router, []diagram.RoutedConnector, error) {
	r := maze.NewRouter(
		maze.WithLogger(opts.Logger),
		maze.WithMaxSteps(max(maze.DefaultMaxSteps, g.Columns*g.Rows)),
	)
	cells := make(map[string]geom.Point, len(blocks))
	placed := make(map[string]geom.Area, len(blocks))
	for _, b := range blocks {
		if err := r.AddBlock(b.Cell, b.ID); err != nil {
			return nil, nil, err
		}
		cells[b.ID] = b.Cell
		placed[b.ID] = b.Area
	}
	r.Reserve(g.cells())

	hooks := observability.Layout()
	routed := make([]diagram.RoutedConnector, 0, len(d.Connectors))
	for _, c := range d.Connectors {
		exit, entry, err := c.Sides()
		if err != nil {
			return nil, nil, err
		}
		path, err := r.Route(maze.Connection{
			From:    cells[c.From],
			FromDir: exit,
			To:      cells[c.To],
			ToDir:   entry,
		})
		hooks.OnRouteComplete(ctx, c.From, c.To, path.Length(), err)
		if err != nil {
			return nil, nil, fmt.Errorf("route %s -> %s: %w", c.From, c.To, err)
		}

		rc := diagram.RoutedConnector{
			From:      c.From,
			To:        c.To,
			Direction: c.Direction,
			Exit:      exit,
			Entry:     entry,
			Path:      []geom.LineSegment(path),
			Length:    path.Length(),
		}
		for _, p := range path.Points() {
			rc.Points = append(rc.Points, g.center(p))
		}
		if n := len(rc.Points); n >= 2 {
			rc.Points[0] = anchor(placed[c.From], exit, rc.Points[0])
			rc.Points[n-1] = anchor(placed[c.To], entry, rc.Points[n-1])
		}
		routed = append(routed, rc)
	}
	return r, routed, nil
}
