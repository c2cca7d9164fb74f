package maze

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gridstitch/pkg/errors"
	"github.com/matzehuels/gridstitch/pkg/geom"
)

// DefaultMaxSteps bounds the backtrack walk of a single route.
const DefaultMaxSteps = 100

const unscored = -1

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for route diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxSteps overrides DefaultMaxSteps. Values below 1 are ignored.
func WithMaxSteps(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.maxSteps = n
		}
	}
}

// Cell is one grid position.
type Cell struct {
	Point geom.Point
	Block string // empty when free

	// Score is the hop count from the current route's source, or -1.
	Score int

	// Horizontal and Vertical count routes that crossed the cell in each
	// orientation.
	Horizontal int
	Vertical   int
}

// Free reports whether routes may pass through the cell.
func (c Cell) Free() bool {
	return c.Block == ""
}

// Scored reports whether the current wavefront reached the cell.
func (c Cell) Scored() bool {
	return c.Score != unscored
}

// Connection describes one route request. From and To are the block cells;
// FromDir is the side the route leaves From by, ToDir the side it enters To
// by. Diagonal directions are reduced to their vertical component.
type Connection struct {
	From    geom.Point
	FromDir geom.Direction
	To      geom.Point
	ToDir   geom.Direction
}

func (c Connection) String() string {
	return fmt.Sprintf("%v %s -> %v %s", c.From, c.FromDir, c.To, c.ToDir)
}

// Router is a Lee router over a sparse grid.
type Router struct {
	cells     map[geom.Point]*Cell
	bounds    geom.Area
	hasBounds bool
	maxSteps  int
	logger    *log.Logger
}

// NewRouter creates an empty router.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		cells:    make(map[geom.Point]*Cell),
		maxSteps: DefaultMaxSteps,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddBlock marks the cell at p as occupied by block.
func (r *Router) AddBlock(p geom.Point, block string) error {
	if block == "" {
		return errs.New(errs.ErrCodeInvalidInput, "block id cannot be empty")
	}
	c := r.makeCell(p)
	if c.Block != "" {
		return errs.New(errs.ErrCodeCellOccupied, "cell %v already holds block %q, cannot add %q", p, c.Block, block)
	}
	c.Block = block
	return nil
}

// Cell returns a copy of the cell at p if it has been created.
func (r *Router) Cell(p geom.Point) (Cell, bool) {
	c, ok := r.cells[p]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// Bounds returns the bounding box of all created cells. The second result
// is false while the grid is empty.
func (r *Router) Bounds() (geom.Area, bool) {
	return r.bounds, r.hasBounds
}

// Reserve grows the routing bounds to include area without creating cells,
// leaving room for routes around the outermost blocks.
func (r *Router) Reserve(area geom.Area) {
	if !area.Valid() {
		return
	}
	if r.hasBounds {
		r.bounds = r.bounds.Union(area)
	} else {
		r.bounds = area
		r.hasBounds = true
	}
}

func (r *Router) makeCell(p geom.Point) *Cell {
	if c, ok := r.cells[p]; ok {
		return c
	}
	r.Reserve(geom.Area{Min: p, Max: p})
	c := &Cell{Point: p, Score: unscored}
	r.cells[p] = c
	return c
}

// cellWithin returns the cell at p, creating it if p is inside the current
// bounds, or nil.
func (r *Router) cellWithin(p geom.Point) *Cell {
	if !r.hasBounds || !r.bounds.Contains(p) {
		return nil
	}
	return r.makeCell(p)
}

func (r *Router) resetScores() {
	for _, c := range r.cells {
		c.Score = unscored
	}
}

// =============================================================================
// Routing
// =============================================================================

// Route finds a shortest orthogonal path for conn.
//
// The route starts one cell past From in FromDir and ends one cell past To in
// ToDir; the returned path includes the stubs joining those cells to the
// blocks. Zero-length segments are omitted.
func (r *Router) Route(conn Connection) (Path, error) {
	if !conn.FromDir.Valid() || !conn.ToDir.Valid() {
		return nil, errs.New(errs.ErrCodeUnrecognizedDirection, "connection %v has an invalid direction", conn)
	}
	fromDir, toDir := conn.FromDir.Cardinal(), conn.ToDir.Cardinal()

	srcPt := conn.From.Add(fromDir.Delta())
	dstPt := conn.To.Add(toDir.Delta())
	src, dst := r.makeCell(srcPt), r.makeCell(dstPt)
	if !src.Free() {
		return nil, errs.New(errs.ErrCodeUnreachable, "route %v starts on block %q at %v", conn, src.Block, srcPt)
	}
	if !dst.Free() {
		return nil, errs.New(errs.ErrCodeUnreachable, "route %v ends on block %q at %v", conn, dst.Block, dstPt)
	}

	r.resetScores()
	r.expand(src)
	if !dst.Scored() {
		return nil, errs.New(errs.ErrCodeUnreachable, "no route from %v to %v", conn.From, conn.To)
	}

	corners, err := r.backtrack(src, dst, toDir)
	if err != nil {
		return nil, err
	}

	path := make(Path, 0, len(corners)+2)
	path = path.add(geom.Seg(conn.From, srcPt))
	for _, seg := range corners {
		path = path.add(seg)
	}
	path = path.add(geom.Seg(dstPt, conn.To))

	r.logger.Debug("routed connection",
		"from", conn.From.String(),
		"to", conn.To.String(),
		"hops", dst.Score,
		"segments", len(path))
	return path, nil
}

// expand scores every free cell reachable from src within bounds with its
// hop count. Processing cells in queue order gives each cell its minimum
// distance on first visit.
func (r *Router) expand(src *Cell) {
	src.Score = 0
	queue := []*Cell{src}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range []geom.Direction{geom.N, geom.E, geom.S, geom.W} {
			n := r.cellWithin(c.Point.Add(d.Delta()))
			if n == nil || !n.Free() || n.Scored() {
				continue
			}
			n.Score = c.Score + 1
			queue = append(queue, n)
		}
	}
}

// backtrack walks from dst down the score gradient to src. At each cell it
// checks the neighbour straight ahead, then to the left, then to the right,
// and takes the first with the strictly lowest score. Every change of
// direction closes a segment ending at the previous corner.
func (r *Router) backtrack(src, dst *Cell, dir geom.Direction) ([]geom.LineSegment, error) {
	var (
		segs  []geom.LineSegment
		trail []usage
	)
	corner := dst.Point
	cur := dst
	for steps := 0; cur != src; steps++ {
		if steps >= r.maxSteps {
			return nil, errs.New(errs.ErrCodeInternal,
				"backtrack from %v to %v exceeded %d steps", dst.Point, src.Point, r.maxSteps)
		}
		trail = append(trail, usage{cur, dir.Vertical()})

		var best *Cell
		bestDir := dir
		for _, d := range []geom.Direction{dir, dir.Left(), dir.Right()} {
			n := r.cellWithin(cur.Point.Add(d.Delta()))
			if n == nil || !n.Scored() {
				continue
			}
			if best == nil || n.Score < best.Score {
				best, bestDir = n, d
			}
		}
		if best == nil || best.Score >= cur.Score {
			return nil, errs.New(errs.ErrCodeInternal, "backtrack stuck at %v (score %d)", cur.Point, cur.Score)
		}

		if bestDir != dir {
			segs = append(segs, geom.Seg(cur.Point, corner))
			corner = cur.Point
		}
		dir = bestDir
		cur = best
	}
	segs = append(segs, geom.Seg(src.Point, corner))
	slices.Reverse(segs)

	// Usage is only recorded for walks that reach the source.
	trail = append(trail, usage{src, dir.Vertical()})
	for _, u := range trail {
		if u.vertical {
			u.cell.Vertical++
		} else {
			u.cell.Horizontal++
		}
	}
	return segs, nil
}

// usage is one cell crossing of a backtrack walk.
type usage struct {
	cell     *Cell
	vertical bool
}

// =============================================================================
// Dump
// =============================================================================

// Dump writes the score table of the last route: one row per y, one column
// per x. Blocks print as "[]", free unscored cells as "-" and cells never
// created as ".".
func (r *Router) Dump(w io.Writer) error {
	if !r.hasBounds {
		_, err := io.WriteString(w, "(empty grid)\n")
		return err
	}
	var b strings.Builder
	b.WriteString("       ")
	for x := r.bounds.Min.X; x <= r.bounds.Max.X; x++ {
		fmt.Fprintf(&b, "%3d", x)
	}
	b.WriteByte('\n')
	for y := r.bounds.Min.Y; y <= r.bounds.Max.Y; y++ {
		fmt.Fprintf(&b, "%5d: ", y)
		for x := r.bounds.Min.X; x <= r.bounds.Max.X; x++ {
			c, ok := r.cells[geom.Pt(x, y)]
			switch {
			case !ok:
				b.WriteString(" . ")
			case c.Scored():
				fmt.Fprintf(&b, "%3d", c.Score)
			case !c.Free():
				b.WriteString(" []")
			default:
				b.WriteString(" - ")
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
