package constraint

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gridstitch/pkg/errors"
)

const (
	// DefaultMaxTrials bounds how many resolve-and-retry rounds Finalize runs.
	DefaultMaxTrials = 7

	startKey  = "start"
	originKey = "origin"

	unreached = math.MaxInt32
)

// Axis names the coordinate an edge constrains.
type Axis byte

const (
	AxisX Axis = 'x'
	AxisY Axis = 'y'
)

func (a Axis) String() string { return string(a) }

// Relationship is a qualitative constraint as it was added.
type Relationship struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Direction string `json:"direction"`
}

func (r Relationship) String() string {
	return fmt.Sprintf("%s %s %s", r.From, r.Direction, r.To)
}

type edgeKind uint8

const (
	kindAnchor edgeKind = iota
	kindRelationship
	kindPin
)

type edge struct {
	to      int
	weight  int
	kind    edgeKind
	rel     int // index into Graph.rels for kindRelationship, block index for kindPin
	dropped bool
}

type vertex struct {
	key   string
	dist  int
	pred  int
	edges []edge
}

// Violation is an edge whose constraint does not hold under the current
// distances: dist(From) + Weight < dist(To).
type Violation struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`

	// Relationship is set when the edge came from AddConstraint.
	Relationship *Relationship `json:"relationship,omitempty"`
	// Pinned names the block when the edge came from Pin.
	Pinned string `json:"pinned,omitempty"`

	vertex, edge int
}

// Describe returns the user-facing cause of the violation.
func (v Violation) Describe() string {
	switch {
	case v.Relationship != nil:
		return v.Relationship.String()
	case v.Pinned != "":
		return "pin of " + v.Pinned
	}
	return fmt.Sprintf("%s -> %s", v.From, v.To)
}

func (v Violation) String() string {
	return fmt.Sprintf("%s -> %s (%+d): %s", v.From, v.To, v.Weight, v.Describe())
}

// VertexInfo is a read-only snapshot of one solved vertex.
type VertexInfo struct {
	Key         string `json:"key"`
	Distance    int    `json:"distance"`
	Predecessor string `json:"predecessor,omitempty"`
}

// Placement is the solved position of one block.
type Placement struct {
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Option configures a Graph.
type Option func(*Graph)

// WithResolver replaces the default DropFirst cycle resolver.
func WithResolver(r CycleResolver) Option {
	return func(g *Graph) {
		if r != nil {
			g.resolver = r
		}
	}
}

// WithLogger sets the logger used for solver diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMaxTrials overrides DefaultMaxTrials. Values below zero are ignored.
func WithMaxTrials(n int) Option {
	return func(g *Graph) {
		if n >= 0 {
			g.maxTrials = n
		}
	}
}

// Graph is a difference-constraint graph over block coordinates.
// It is not safe for concurrent use.
type Graph struct {
	vertices []vertex
	index    map[string]int
	blocks   []string
	rels     []Relationship
	origin   int

	resolver  CycleResolver
	maxTrials int
	logger    *log.Logger

	finalized bool
	err       error
	dropped   []Violation
	trials    int
}

// New creates an open graph containing only the start vertex.
func New(opts ...Option) *Graph {
	g := &Graph{
		index:     make(map[string]int),
		origin:    -1,
		resolver:  DropFirst{},
		maxTrials: DefaultMaxTrials,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.addVertex(startKey, 0)
	return g
}

func (g *Graph) addVertex(key string, init int) int {
	g.vertices = append(g.vertices, vertex{key: key, dist: init, pred: -1})
	id := len(g.vertices) - 1
	g.index[key] = id
	return id
}

func (g *Graph) addEdge(from, to, weight int, kind edgeKind, ref int) {
	g.vertices[from].edges = append(g.vertices[from].edges, edge{
		to: to, weight: weight, kind: kind, rel: ref,
	})
}

func (g *Graph) checkOpen() error {
	if g.finalized {
		return errs.New(errs.ErrCodeFinalized, "constraint graph is finalized")
	}
	return nil
}

// AddVariable registers a block and wires its x and y vertices from start.
func (g *Graph) AddVariable(name string) error {
	if err := g.checkOpen(); err != nil {
		return err
	}
	if err := errs.ValidateIdentifier(name); err != nil {
		return err
	}
	if name == startKey || name == originKey {
		return errs.New(errs.ErrCodeInvalidInput, "block id %q is reserved", name)
	}
	if _, ok := g.index[name+".x"]; ok {
		return errs.New(errs.ErrCodeDuplicate, "block %q already added", name)
	}
	g.blocks = append(g.blocks, name)
	for _, axis := range []Axis{AxisX, AxisY} {
		v := g.addVertex(name+"."+axis.String(), unreached)
		g.addEdge(0, v, 0, kindAnchor, -1)
	}
	return nil
}

// AddConstraint records that to sits at the offset of direction from from.
func (g *Graph) AddConstraint(from, to, direction string) error {
	if err := g.checkOpen(); err != nil {
		return err
	}
	off, err := Lookup(direction)
	if err != nil {
		return err
	}
	for _, name := range []string{from, to} {
		if _, ok := g.index[name+".x"]; !ok {
			return errs.New(errs.ErrCodeUnknownVariable, "unknown block %q in relationship %s %s %s", name, from, direction, to)
		}
	}
	if from == to {
		return errs.New(errs.ErrCodeInvalidInput, "block %q cannot be related to itself", from)
	}

	g.rels = append(g.rels, Relationship{From: from, To: to, Direction: direction})
	ref := len(g.rels) - 1
	g.link(g.index[from+".x"], g.index[to+".x"], off.X, kindRelationship, ref)
	g.link(g.index[from+".y"], g.index[to+".y"], off.Y, kindRelationship, ref)
	g.logger.Debug("added relationship", "from", from, "to", to, "direction", direction, "dx", off.X, "dy", off.Y)
	return nil
}

// link adds the forward/backward pair that forces dist(b) - dist(a) == w.
func (g *Graph) link(a, b, w int, kind edgeKind, ref int) {
	g.addEdge(a, b, w, kind, ref)
	g.addEdge(b, a, -w, kind, ref)
}

// Pin fixes a block at an absolute grid position.
func (g *Graph) Pin(name string, x, y int) error {
	if err := g.checkOpen(); err != nil {
		return err
	}
	if _, ok := g.index[name+".x"]; !ok {
		return errs.New(errs.ErrCodeUnknownVariable, "cannot pin unknown block %q", name)
	}
	if g.origin < 0 {
		g.origin = g.addVertex(originKey+".x", unreached)
		g.addEdge(0, g.origin, 0, kindAnchor, -1)
		oy := g.addVertex(originKey+".y", unreached)
		g.addEdge(0, oy, 0, kindAnchor, -1)
	}
	ref := g.blockIndex(name)
	g.link(g.index[originKey+".x"], g.index[name+".x"], x, kindPin, ref)
	g.link(g.index[originKey+".y"], g.index[name+".y"], y, kindPin, ref)
	return nil
}

func (g *Graph) blockIndex(name string) int {
	for i, b := range g.blocks {
		if b == name {
			return i
		}
	}
	return -1
}

// Finalize solves the graph. It is idempotent: later calls return the
// outcome of the first one.
func (g *Graph) Finalize() error {
	if g.finalized {
		return g.err
	}
	g.finalized = true

	for g.trials = 1; ; g.trials++ {
		g.reset()
		passes := g.relax()
		violations := g.violations()
		g.logger.Debug("relaxed constraint graph",
			"trial", g.trials,
			"passes", passes,
			"violations", len(violations))
		if len(violations) == 0 {
			return nil
		}
		if g.trials > g.maxTrials {
			g.logger.Warn("constraint cycles remain, accepting partial solution",
				"trials", g.trials,
				"violations", len(violations))
			return nil
		}
		drop, err := g.resolver.Resolve(violations)
		if err != nil {
			g.err = err
			return err
		}
		if len(drop) == 0 {
			return nil
		}
		for _, v := range drop {
			e := &g.vertices[v.vertex].edges[v.edge]
			if e.dropped {
				continue
			}
			e.dropped = true
			g.dropped = append(g.dropped, v)
			g.logger.Warn("dropped contradictory constraint", "constraint", v.Describe(), "edge", v.From+" -> "+v.To)
		}
	}
}

func (g *Graph) reset() {
	for i := range g.vertices {
		g.vertices[i].dist = unreached
		g.vertices[i].pred = -1
	}
	g.vertices[0].dist = 0
}

// relax runs up to |V| passes over every live edge in insertion order and
// returns the number of passes performed.
func (g *Graph) relax() int {
	n := len(g.vertices)
	for pass := 1; pass <= n; pass++ {
		changed := false
		for u := range g.vertices {
			du := g.vertices[u].dist
			if du == unreached {
				continue
			}
			for _, e := range g.vertices[u].edges {
				if e.dropped {
					continue
				}
				if du+e.weight < g.vertices[e.to].dist {
					g.vertices[e.to].dist = du + e.weight
					g.vertices[e.to].pred = u
					changed = true
				}
			}
		}
		if !changed {
			return pass
		}
	}
	return n
}

func (g *Graph) violations() []Violation {
	var out []Violation
	for u, vx := range g.vertices {
		if vx.dist == unreached {
			continue
		}
		for i, e := range vx.edges {
			if e.dropped || vx.dist+e.weight >= g.vertices[e.to].dist {
				continue
			}
			out = append(out, g.violation(u, i))
		}
	}
	return out
}

func (g *Graph) violation(u, i int) Violation {
	e := g.vertices[u].edges[i]
	v := Violation{
		From:   g.vertices[u].key,
		To:     g.vertices[e.to].key,
		Weight: e.weight,
		vertex: u,
		edge:   i,
	}
	switch e.kind {
	case kindRelationship:
		rel := g.rels[e.rel]
		v.Relationship = &rel
	case kindPin:
		v.Pinned = g.blocks[e.rel]
	}
	return v
}

// Coordinate returns the solved position of a block, finalizing the graph on
// first use.
func (g *Graph) Coordinate(name string) (x, y int, err error) {
	if err := g.Finalize(); err != nil {
		return 0, 0, err
	}
	xi, ok := g.index[name+".x"]
	if !ok {
		return 0, 0, errs.New(errs.ErrCodeUnknownVariable, "unknown block %q", name)
	}
	yi := g.index[name+".y"]
	ox, oy := g.originShift()
	return g.vertices[xi].dist - ox, g.vertices[yi].dist - oy, nil
}

func (g *Graph) originShift() (int, int) {
	if g.origin < 0 {
		return 0, 0
	}
	return g.vertices[g.index[originKey+".x"]].dist, g.vertices[g.index[originKey+".y"]].dist
}

// Placements returns every block's position in the order blocks were added.
func (g *Graph) Placements() ([]Placement, error) {
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	out := make([]Placement, 0, len(g.blocks))
	for _, name := range g.blocks {
		x, y, err := g.Coordinate(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Placement{Name: name, X: x, Y: y})
	}
	return out, nil
}

// Dropped returns the constraints removed while repairing cycles.
func (g *Graph) Dropped() []Violation {
	return append([]Violation(nil), g.dropped...)
}

// Check re-tests every live edge against the final distances and returns the
// ones that still do not hold. An empty result means the solution satisfies
// every constraint that was not dropped.
func (g *Graph) Check() ([]Violation, error) {
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	return g.violations(), nil
}

// Trials reports how many relaxation rounds Finalize ran.
func (g *Graph) Trials() int {
	return g.trials
}

// Relationships returns the relationships in insertion order.
func (g *Graph) Relationships() []Relationship {
	return append([]Relationship(nil), g.rels...)
}

// Blocks returns the registered block names in insertion order.
func (g *Graph) Blocks() []string {
	return append([]string(nil), g.blocks...)
}

// Vertices dumps every vertex with its distance and predecessor.
func (g *Graph) Vertices() ([]VertexInfo, error) {
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	out := make([]VertexInfo, len(g.vertices))
	for i, v := range g.vertices {
		out[i] = VertexInfo{Key: v.key, Distance: v.dist}
		if v.pred >= 0 {
			out[i].Predecessor = g.vertices[v.pred].key
		}
	}
	return out, nil
}
