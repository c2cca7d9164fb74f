package geom

import "fmt"

// Point is an integer grid position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both coordinates by k.
func (p Point) Scale(k int) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Manhattan returns the L1 distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("[%d,%d]", p.X, p.Y)
}

// =============================================================================
// Area
// =============================================================================

// Area is an axis-aligned rectangle with inclusive corners.
type Area struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Rect builds the area spanned by two opposite corners in any order.
func Rect(x0, y0, x1, y1 int) Area {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Area{Min: Pt(x0, y0), Max: Pt(x1, y1)}
}

// Valid reports whether Min lies above and left of (or on) Max.
func (a Area) Valid() bool {
	return a.Min.X <= a.Max.X && a.Min.Y <= a.Max.Y
}

func (a Area) Width() int  { return a.Max.X - a.Min.X + 1 }
func (a Area) Height() int { return a.Max.Y - a.Min.Y + 1 }

// Size returns the number of unit cells covered.
func (a Area) Size() int {
	return a.Width() * a.Height()
}

// Contains reports whether p lies inside a, edges included.
func (a Area) Contains(p Point) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X && p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

// ContainsArea reports whether b lies entirely inside a.
func (a Area) ContainsArea(b Area) bool {
	return a.Contains(b.Min) && a.Contains(b.Max)
}

// Intersects reports whether a and b share at least one cell.
func (a Area) Intersects(b Area) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

// BottomLeft returns the lower-left corner (max y, min x).
func (a Area) BottomLeft() Point {
	return Pt(a.Min.X, a.Max.Y)
}

// Union returns the smallest area covering a and b.
func (a Area) Union(b Area) Area {
	return Area{
		Min: Pt(min(a.Min.X, b.Min.X), min(a.Min.Y, b.Min.Y)),
		Max: Pt(max(a.Max.X, b.Max.X), max(a.Max.Y, b.Max.Y)),
	}
}

func (a Area) String() string {
	return fmt.Sprintf("%s-%s", a.Min, a.Max)
}

// =============================================================================
// LineSegment
// =============================================================================

// LineSegment is a straight piece of an orthogonal polyline.
type LineSegment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Seg is shorthand for a LineSegment between two points.
func Seg(from, to Point) LineSegment {
	return LineSegment{From: from, To: to}
}

// Length returns the Manhattan length of the segment.
func (l LineSegment) Length() int {
	return l.From.Manhattan(l.To)
}

// Degenerate reports whether the segment has zero length.
func (l LineSegment) Degenerate() bool {
	return l.From == l.To
}

// Horizontal reports whether both ends share a y coordinate.
func (l LineSegment) Horizontal() bool {
	return l.From.Y == l.To.Y
}

func (l LineSegment) String() string {
	return fmt.Sprintf("%s-%s", l.From, l.To)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
