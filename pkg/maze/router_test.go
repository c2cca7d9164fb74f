package maze

import (
	"bytes"
	"strings"
	"testing"

	errs "github.com/matzehuels/gridstitch/pkg/errors"
	"github.com/matzehuels/gridstitch/pkg/geom"
)

// corners builds a router with blocks at (1,1) and (5,5) plus extras.
func corners(t *testing.T, extra map[string]geom.Point) *Router {
	t.Helper()
	r := NewRouter()
	blocks := map[string]geom.Point{"top_left": geom.Pt(1, 1), "bottom_right": geom.Pt(5, 5)}
	for name, p := range extra {
		blocks[name] = p
	}
	for name, p := range blocks {
		if err := r.AddBlock(p, name); err != nil {
			t.Fatalf("AddBlock(%v, %q): %v", p, name, err)
		}
	}
	return r
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name     string
		extra    map[string]geom.Point
		from, to geom.Direction
		want     string
	}{
		{
			name: "E to W",
			from: geom.E, to: geom.W,
			want: "[1,1]-[2,1], [2,1]-[2,5], [2,5]-[4,5], [4,5]-[5,5]",
		},
		{
			name: "S to N",
			from: geom.S, to: geom.N,
			want: "[1,1]-[1,2], [1,2]-[5,2], [5,2]-[5,4], [5,4]-[5,5]",
		},
		{
			name:  "E to W around centre",
			extra: map[string]geom.Point{"middle": geom.Pt(3, 3)},
			from:  geom.E, to: geom.W,
			want: "[1,1]-[2,1], [2,1]-[2,5], [2,5]-[4,5], [4,5]-[5,5]",
		},
		{
			name:  "S to N around centre",
			extra: map[string]geom.Point{"middle": geom.Pt(3, 3)},
			from:  geom.S, to: geom.N,
			want: "[1,1]-[1,2], [1,2]-[5,2], [5,2]-[5,4], [5,4]-[5,5]",
		},
		{
			name: "S to W",
			from: geom.S, to: geom.W,
			want: "[1,1]-[1,2], [1,2]-[1,5], [1,5]-[4,5], [4,5]-[5,5]",
		},
		{
			name:  "S to W around bottom left",
			extra: map[string]geom.Point{"bottom_left": geom.Pt(1, 5)},
			from:  geom.S, to: geom.W,
			want: "[1,1]-[1,2], [1,2]-[2,2], [2,2]-[2,5], [2,5]-[4,5], [4,5]-[5,5]",
		},
		{
			name: "N to E",
			from: geom.N, to: geom.E,
			want: "[1,1]-[1,0], [1,0]-[6,0], [6,0]-[6,5], [6,5]-[5,5]",
		},
		{
			name:  "N to E past top right",
			extra: map[string]geom.Point{"top_right": geom.Pt(5, 1)},
			from:  geom.N, to: geom.E,
			want: "[1,1]-[1,0], [1,0]-[6,0], [6,0]-[6,5], [6,5]-[5,5]",
		},
		{
			name: "diagonal exit uses vertical component",
			from: geom.SE, to: geom.NW,
			want: "[1,1]-[1,2], [1,2]-[5,2], [5,2]-[5,4], [5,4]-[5,5]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := corners(t, tt.extra)
			path, err := r.Route(Connection{From: geom.Pt(1, 1), FromDir: tt.from, To: geom.Pt(5, 5), ToDir: tt.to})
			if err != nil {
				t.Fatalf("Route: %v", err)
			}
			if got := path.String(); got != tt.want {
				t.Errorf("Route() = %s\nwant      %s", got, tt.want)
			}
		})
	}
}

func TestRouteIsShortest(t *testing.T) {
	r := corners(t, map[string]geom.Point{"middle": geom.Pt(3, 3)})
	path, err := r.Route(Connection{From: geom.Pt(1, 1), FromDir: geom.E, To: geom.Pt(5, 5), ToDir: geom.W})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	// Stubs plus the Manhattan distance between (2,1) and (4,5).
	if got, want := path.Length(), 1+6+1; got != want {
		t.Errorf("Length() = %d, want %d", got, want)
	}
	pts := path.Points()
	if pts[0] != geom.Pt(1, 1) || pts[len(pts)-1] != geom.Pt(5, 5) {
		t.Errorf("Points() = %v, want endpoints [1,1] and [5,5]", pts)
	}
	for i, s := range path {
		if s.From.X != s.To.X && s.From.Y != s.To.Y {
			t.Errorf("segment %d %v is not orthogonal", i, s)
		}
		if i > 0 && path[i-1].To != s.From {
			t.Errorf("segment %d %v does not continue from %v", i, s, path[i-1])
		}
	}
}

func TestRouteDetour(t *testing.T) {
	// A wall at x=3 from y=0 to y=4 forces the route below it.
	r := NewRouter()
	mustBlock(t, r, geom.Pt(0, 2), "src")
	mustBlock(t, r, geom.Pt(6, 2), "dst")
	for y := 0; y <= 4; y++ {
		mustBlock(t, r, geom.Pt(3, y), "wall"+string(rune('0'+y)))
	}
	mustBlock(t, r, geom.Pt(3, 6), "corner")

	path, err := r.Route(Connection{From: geom.Pt(0, 2), FromDir: geom.E, To: geom.Pt(6, 2), ToDir: geom.W})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	crossed := false
	for _, p := range path.Points() {
		if p.Y == 5 {
			crossed = true
		}
	}
	if !crossed {
		t.Errorf("Route() = %v, want detour through row 5", path)
	}
	// Two stubs plus ten hops from (1,2) to (5,2) through (3,5).
	if got, want := path.Length(), 1+10+1; got != want {
		t.Errorf("Length() = %d, want %d", got, want)
	}
}

func TestRouteUnreachable(t *testing.T) {
	r := NewRouter()
	mustBlock(t, r, geom.Pt(0, 0), "src")
	mustBlock(t, r, geom.Pt(4, 4), "dst")
	// Enclose (3,4), the cell west of dst.
	mustBlock(t, r, geom.Pt(3, 3), "n")
	mustBlock(t, r, geom.Pt(2, 4), "w")

	_, err := r.Route(Connection{From: geom.Pt(0, 0), FromDir: geom.E, To: geom.Pt(4, 4), ToDir: geom.W})
	if !errs.Is(err, errs.ErrCodeUnreachable) {
		t.Fatalf("Route() error = %v, want %s", err, errs.ErrCodeUnreachable)
	}
}

func TestRouteOntoBlock(t *testing.T) {
	r := NewRouter()
	mustBlock(t, r, geom.Pt(0, 0), "a")
	mustBlock(t, r, geom.Pt(1, 0), "b")
	mustBlock(t, r, geom.Pt(4, 0), "c")

	_, err := r.Route(Connection{From: geom.Pt(0, 0), FromDir: geom.E, To: geom.Pt(4, 0), ToDir: geom.W})
	if !errs.Is(err, errs.ErrCodeUnreachable) {
		t.Errorf("Route() error = %v, want %s", err, errs.ErrCodeUnreachable)
	}
}

func TestRouteStepCap(t *testing.T) {
	r := NewRouter(WithMaxSteps(3))
	mustBlock(t, r, geom.Pt(0, 0), "a")
	mustBlock(t, r, geom.Pt(10, 0), "b")

	_, err := r.Route(Connection{From: geom.Pt(0, 0), FromDir: geom.E, To: geom.Pt(10, 0), ToDir: geom.W})
	if !errs.Is(err, errs.ErrCodeInternal) {
		t.Errorf("Route() error = %v, want %s", err, errs.ErrCodeInternal)
	}
	// An aborted backtrack leaves no usage behind.
	b, _ := r.Bounds()
	for y := b.Min.Y; y <= b.Max.Y; y++ {
		for x := b.Min.X; x <= b.Max.X; x++ {
			if c, ok := r.Cell(geom.Pt(x, y)); ok && (c.Horizontal != 0 || c.Vertical != 0) {
				t.Errorf("Cell(%d,%d) usage = %d/%d after failed route, want 0/0", x, y, c.Horizontal, c.Vertical)
			}
		}
	}
}

func TestRouteInvalidDirection(t *testing.T) {
	r := corners(t, nil)
	_, err := r.Route(Connection{From: geom.Pt(1, 1), FromDir: geom.Direction(42), To: geom.Pt(5, 5), ToDir: geom.W})
	if !errs.Is(err, errs.ErrCodeUnrecognizedDirection) {
		t.Errorf("Route() error = %v, want %s", err, errs.ErrCodeUnrecognizedDirection)
	}
}

func TestAddBlock(t *testing.T) {
	r := NewRouter()
	mustBlock(t, r, geom.Pt(2, 3), "A")
	err := r.AddBlock(geom.Pt(2, 3), "B")
	if !errs.Is(err, errs.ErrCodeCellOccupied) {
		t.Errorf("AddBlock(occupied) error = %v, want %s", err, errs.ErrCodeCellOccupied)
	}
	if err := r.AddBlock(geom.Pt(0, 0), ""); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("AddBlock(empty) error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
	c, ok := r.Cell(geom.Pt(2, 3))
	if !ok || c.Block != "A" || c.Free() {
		t.Errorf("Cell(2,3) = %+v, %v; want block A", c, ok)
	}
	if b, ok := r.Bounds(); !ok || b != geom.Rect(2, 3, 2, 3) {
		t.Errorf("Bounds() = %v, %v; want [2,3]-[2,3]", b, ok)
	}
	mustBlock(t, r, geom.Pt(0, 5), "C")
	if b, _ := r.Bounds(); b != geom.Rect(0, 3, 2, 5) {
		t.Errorf("Bounds() = %v, want [0,3]-[2,5]", b)
	}
}

func TestReserve(t *testing.T) {
	// Without room above row 0 the route has to pass below.
	r := NewRouter()
	mustBlock(t, r, geom.Pt(0, 0), "a")
	mustBlock(t, r, geom.Pt(2, 0), "wall")
	mustBlock(t, r, geom.Pt(4, 0), "b")
	r.Reserve(geom.Rect(0, 0, 4, 1))

	path, err := r.Route(Connection{From: geom.Pt(0, 0), FromDir: geom.E, To: geom.Pt(4, 0), ToDir: geom.W})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if got, want := path.String(), "[0,0]-[1,0], [1,0]-[1,1], [1,1]-[3,1], [3,1]-[3,0], [3,0]-[4,0]"; got != want {
		t.Errorf("Route() = %s, want %s", got, want)
	}
}

func TestUsageCounters(t *testing.T) {
	r := corners(t, nil)
	if _, err := r.Route(Connection{From: geom.Pt(1, 1), FromDir: geom.E, To: geom.Pt(5, 5), ToDir: geom.W}); err != nil {
		t.Fatalf("Route: %v", err)
	}
	// Backtrack runs west along row 5 then north up column 2.
	if c, _ := r.Cell(geom.Pt(3, 5)); c.Horizontal != 1 || c.Vertical != 0 {
		t.Errorf("Cell(3,5) usage = %d/%d, want 1/0", c.Horizontal, c.Vertical)
	}
	if c, _ := r.Cell(geom.Pt(2, 3)); c.Horizontal != 0 || c.Vertical != 1 {
		t.Errorf("Cell(2,3) usage = %d/%d, want 0/1", c.Horizontal, c.Vertical)
	}
	if c, _ := r.Cell(geom.Pt(2, 1)); c.Horizontal != 0 || c.Vertical != 1 {
		t.Errorf("source Cell(2,1) usage = %d/%d, want 0/1", c.Horizontal, c.Vertical)
	}
}

func TestDump(t *testing.T) {
	r := NewRouter()
	var buf bytes.Buffer
	if err := r.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), "empty") {
		t.Errorf("Dump(empty) = %q", buf.String())
	}

	r = corners(t, nil)
	if _, err := r.Route(Connection{From: geom.Pt(1, 1), FromDir: geom.E, To: geom.Pt(5, 5), ToDir: geom.W}); err != nil {
		t.Fatalf("Route: %v", err)
	}
	buf.Reset()
	if err := r.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("Dump() has %d lines, want 6:\n%s", len(lines), buf.String())
	}
	if want := "    1:  []  0  1  2  3"; lines[1] != want {
		t.Errorf("row 1 = %q, want %q", lines[1], want)
	}
}

func mustBlock(t *testing.T, r *Router, p geom.Point, name string) {
	t.Helper()
	if err := r.AddBlock(p, name); err != nil {
		t.Fatalf("AddBlock(%v, %q): %v", p, name, err)
	}
}
