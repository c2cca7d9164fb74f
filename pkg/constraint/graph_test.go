package constraint

import (
	"math/rand"
	"strings"
	"testing"

	errs "github.com/matzehuels/gridstitch/pkg/errors"
	"github.com/matzehuels/gridstitch/pkg/geom"
)

func mustGraph(t *testing.T, opts []Option, blocks ...string) *Graph {
	t.Helper()
	g := New(opts...)
	for _, b := range blocks {
		if err := g.AddVariable(b); err != nil {
			t.Fatalf("AddVariable(%q): %v", b, err)
		}
	}
	return g
}

func mustCoord(t *testing.T, g *Graph, name string) (int, int) {
	t.Helper()
	x, y, err := g.Coordinate(name)
	if err != nil {
		t.Fatalf("Coordinate(%q): %v", name, err)
	}
	return x, y
}

func TestReviewExample(t *testing.T) {
	g := mustGraph(t, nil, "Author", "Paper", "Reviewer", "Conference")
	for _, r := range []Relationship{
		{"Author", "Paper", "left"},
		{"Paper", "Reviewer", "left"},
		{"Paper", "Conference", "above"},
	} {
		if err := g.AddConstraint(r.From, r.To, r.Direction); err != nil {
			t.Fatalf("AddConstraint(%v): %v", r, err)
		}
	}

	want := map[string][2]int{
		"Author":     {-2, 0},
		"Paper":      {-1, 0},
		"Reviewer":   {0, 0},
		"Conference": {-1, -1},
	}
	for name, w := range want {
		x, y := mustCoord(t, g, name)
		if x != w[0] || y != w[1] {
			t.Errorf("%s = (%d, %d), want (%d, %d)", name, x, y, w[0], w[1])
		}
	}
	if d := g.Dropped(); len(d) != 0 {
		t.Errorf("Dropped() = %v, want none", d)
	}
}

func TestEveryDirectionHoldsExactly(t *testing.T) {
	for _, dir := range Directions() {
		t.Run(dir, func(t *testing.T) {
			g := mustGraph(t, nil, "A", "B")
			if err := g.AddConstraint("A", "B", dir); err != nil {
				t.Fatalf("AddConstraint: %v", err)
			}
			ax, ay := mustCoord(t, g, "A")
			bx, by := mustCoord(t, g, "B")
			off, _ := Lookup(dir)
			if bx-ax != off.X || by-ay != off.Y {
				t.Errorf("B-A = (%d, %d), want (%d, %d)", bx-ax, by-ay, off.X, off.Y)
			}
		})
	}
}

func TestDirectionTable(t *testing.T) {
	if got := len(Directions()); got != 14 {
		t.Errorf("len(Directions()) = %d, want 14", got)
	}
	off, err := Lookup("NE")
	if err != nil || off != (Offset{X: 2, Y: -2}) {
		t.Errorf("Lookup(NE) = %v, %v", off, err)
	}
}

func TestOffsetCompass(t *testing.T) {
	tests := []struct {
		direction string
		want      geom.Direction
	}{
		{"left", geom.E},
		{"right", geom.W},
		{"above", geom.N},
		{"below", geom.S},
		{"NE", geom.NE},
		{"SW", geom.SW},
		{"U", geom.NE},
		{"D", geom.SW},
	}
	for _, tt := range tests {
		off, err := Lookup(tt.direction)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.direction, err)
		}
		if got := off.Compass(); got != tt.want {
			t.Errorf("Lookup(%q).Compass() = %v, want %v", tt.direction, got, tt.want)
		}
	}
}

func TestAddConstraintErrors(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		dir      string
		code     errs.Code
	}{
		{"unrecognized direction", "A", "B", "sideways", errs.ErrCodeUnrecognizedDirection},
		{"lowercase compass", "A", "B", "ne", errs.ErrCodeUnrecognizedDirection},
		{"unknown from", "X", "B", "E", errs.ErrCodeUnknownVariable},
		{"unknown to", "A", "Y", "E", errs.ErrCodeUnknownVariable},
		{"self relation", "A", "A", "E", errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t, nil, "A", "B")
			err := g.AddConstraint(tt.from, tt.to, tt.dir)
			if !errs.Is(err, tt.code) {
				t.Errorf("AddConstraint() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestAddVariableErrors(t *testing.T) {
	g := mustGraph(t, nil, "A")
	if err := g.AddVariable("A"); !errs.Is(err, errs.ErrCodeDuplicate) {
		t.Errorf("duplicate AddVariable error = %v", err)
	}
	if err := g.AddVariable(""); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("empty AddVariable error = %v", err)
	}
	if err := g.AddVariable("origin"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("reserved AddVariable error = %v", err)
	}
}

func TestFinalizedGraphIsImmutable(t *testing.T) {
	g := mustGraph(t, nil, "A", "B")
	mustCoord(t, g, "A")

	if err := g.AddVariable("C"); !errs.Is(err, errs.ErrCodeFinalized) {
		t.Errorf("AddVariable after finalize error = %v", err)
	}
	if err := g.AddConstraint("A", "B", "E"); !errs.Is(err, errs.ErrCodeFinalized) {
		t.Errorf("AddConstraint after finalize error = %v", err)
	}
	if err := g.Pin("A", 1, 1); !errs.Is(err, errs.ErrCodeFinalized) {
		t.Errorf("Pin after finalize error = %v", err)
	}
	if _, _, err := g.Coordinate("missing"); !errs.Is(err, errs.ErrCodeUnknownVariable) {
		t.Errorf("Coordinate(missing) error = %v", err)
	}
}

func contradiction(t *testing.T, opts ...Option) *Graph {
	t.Helper()
	g := mustGraph(t, opts, "A", "B")
	if err := g.AddConstraint("A", "B", "left"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddConstraint("B", "A", "left"); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCycleRepairDropsConstraints(t *testing.T) {
	g := contradiction(t)
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	dropped := g.Dropped()
	if len(dropped) == 0 {
		t.Fatal("Dropped() is empty, want at least one repaired edge")
	}
	for _, d := range dropped {
		if d.Relationship == nil {
			t.Errorf("dropped edge %v has no relationship", d)
		}
	}
	remaining, err := g.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Check() = %v, want no violations after repair", remaining)
	}
	if g.Trials() < 2 {
		t.Errorf("Trials() = %d, want a retry", g.Trials())
	}
}

func TestDOTShowsEveryDroppedEdge(t *testing.T) {
	g := contradiction(t)
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	dropped := len(g.Dropped())
	if dropped == 0 {
		t.Fatal("Dropped() is empty, want at least one repaired edge")
	}
	dot := g.ToDOT()
	if got := strings.Count(dot, "style=dashed"); got != dropped {
		t.Errorf("ToDOT() has %d dashed edges, want %d:\n%s", got, dropped, dot)
	}
}

func TestCycleRepairGivesUpAfterMaxTrials(t *testing.T) {
	g := contradiction(t, WithMaxTrials(0))
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(g.Dropped()) != 0 {
		t.Errorf("Dropped() = %v, want none with zero retries", g.Dropped())
	}
	remaining, _ := g.Check()
	if len(remaining) == 0 {
		t.Error("Check() should report the unresolved contradiction")
	}
	if _, _, err := g.Coordinate("A"); err != nil {
		t.Errorf("partial solution should still be readable: %v", err)
	}
}

func TestStrictResolver(t *testing.T) {
	g := contradiction(t, WithResolver(Strict{}))
	_, _, err := g.Coordinate("A")
	if !errs.Is(err, errs.ErrCodeNegativeCycle) {
		t.Fatalf("Coordinate() error = %v, want %v", err, errs.ErrCodeNegativeCycle)
	}
	if !strings.Contains(err.Error(), "left") {
		t.Errorf("error %q should name the relationships", err)
	}
	// The failure sticks.
	if err2 := g.Finalize(); err2 != err {
		t.Errorf("second Finalize() = %v, want %v", err2, err)
	}
}

func TestResolverFunc(t *testing.T) {
	var rounds int
	dropAll := ResolverFunc(func(v []Violation) ([]Violation, error) {
		rounds++
		return v, nil
	})
	g := contradiction(t, WithResolver(dropAll))
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if rounds == 0 {
		t.Error("custom resolver was never consulted")
	}
	if remaining, _ := g.Check(); len(remaining) != 0 {
		t.Errorf("Check() = %v, want none", remaining)
	}
}

func TestPin(t *testing.T) {
	g := mustGraph(t, nil, "Author", "Paper", "Reviewer", "Conference")
	_ = g.AddConstraint("Author", "Paper", "left")
	_ = g.AddConstraint("Paper", "Reviewer", "left")
	_ = g.AddConstraint("Paper", "Conference", "above")
	if err := g.Pin("Paper", 5, 5); err != nil {
		t.Fatalf("Pin: %v", err)
	}

	placements, err := g.Placements()
	if err != nil {
		t.Fatalf("Placements: %v", err)
	}
	want := []Placement{
		{"Author", 3, 5},
		{"Paper", 5, 5},
		{"Reviewer", 6, 5},
		{"Conference", 5, 4},
	}
	if len(placements) != len(want) {
		t.Fatalf("len(Placements) = %d, want %d", len(placements), len(want))
	}
	for i := range want {
		if placements[i] != want[i] {
			t.Errorf("Placements[%d] = %+v, want %+v", i, placements[i], want[i])
		}
	}
}

func TestConflictingPins(t *testing.T) {
	g := mustGraph(t, []Option{WithResolver(Strict{})}, "A", "B")
	_ = g.AddConstraint("A", "B", "E")
	_ = g.Pin("A", 0, 0)
	_ = g.Pin("B", 10, 0)
	if err := g.Finalize(); !errs.Is(err, errs.ErrCodeNegativeCycle) {
		t.Errorf("Finalize() error = %v, want negative cycle", err)
	}
}

func TestConsistentTreesAreSatisfied(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dirs := Directions()

	for iter := 0; iter < 50; iter++ {
		n := 2 + rng.Intn(12)
		g := New()
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A'+i%26)) + strings.Repeat("'", i/26)
			if err := g.AddVariable(names[i]); err != nil {
				t.Fatal(err)
			}
		}
		var rels []Relationship
		for i := 1; i < n; i++ {
			r := Relationship{From: names[rng.Intn(i)], To: names[i], Direction: dirs[rng.Intn(len(dirs))]}
			if rng.Intn(2) == 0 {
				r.From, r.To = r.To, r.From
			}
			if err := g.AddConstraint(r.From, r.To, r.Direction); err != nil {
				t.Fatal(err)
			}
			rels = append(rels, r)
		}

		for _, r := range rels {
			fx, fy := mustCoord(t, g, r.From)
			tx, ty := mustCoord(t, g, r.To)
			off, _ := Lookup(r.Direction)
			if tx-fx != off.X || ty-fy != off.Y {
				t.Errorf("iter %d: %v gives delta (%d, %d), want (%d, %d)", iter, r, tx-fx, ty-fy, off.X, off.Y)
			}
		}
		if len(g.Dropped()) != 0 {
			t.Errorf("iter %d: consistent tree dropped %v", iter, g.Dropped())
		}
	}
}

func TestVerticesAndDOT(t *testing.T) {
	g := mustGraph(t, nil, "A", "B")
	_ = g.AddConstraint("A", "B", "E")

	vs, err := g.Vertices()
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	if len(vs) != 5 {
		t.Fatalf("len(Vertices) = %d, want 5", len(vs))
	}
	if vs[0].Key != "start" || vs[0].Distance != 0 {
		t.Errorf("Vertices[0] = %+v, want start at 0", vs[0])
	}

	dot := g.ToDOT()
	for _, want := range []string{"digraph Constraints", `"A.x\n-2"`, "style=dotted"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}
