package maze

import (
	"strings"

	"github.com/matzehuels/gridstitch/pkg/geom"
)

// Path is a connected sequence of orthogonal segments.
type Path []geom.LineSegment

// Length returns the total grid length of p.
func (p Path) Length() int {
	n := 0
	for _, s := range p {
		n += s.Length()
	}
	return n
}

// Points returns the polyline vertices of p: the start of the first segment
// followed by the end of every segment.
func (p Path) Points() []geom.Point {
	if len(p) == 0 {
		return nil
	}
	pts := make([]geom.Point, 0, len(p)+1)
	pts = append(pts, p[0].From)
	for _, s := range p {
		pts = append(pts, s.To)
	}
	return pts
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

func (p Path) add(s geom.LineSegment) Path {
	if s.Degenerate() {
		return p
	}
	return append(p, s)
}
