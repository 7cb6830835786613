package geom

import "github.com/Faultbox/midgard-terrain/pkg/math"

// Polygon is an ordered list of vertices with an implicit closing edge from
// the last vertex back to the first. Winding order does not matter.
type Polygon []math.Vec2

// Bounds returns the axis-aligned bounding rect of the vertices.
func (p Polygon) Bounds() Rect {
	return RectFromPoints(p...)
}

// Area returns the signed shoelace area, positive for counter-clockwise.
func (p Polygon) Area() float32 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		sum += float64(p[j].X)*float64(p[i].Y) - float64(p[i].X)*float64(p[j].Y)
	}
	return float32(sum / 2)
}

// Degenerate reports whether p cannot enclose any point.
func (p Polygon) Degenerate() bool {
	return len(p) < 3 || p.Area() == 0
}

// Map returns a copy of p with fn applied to every vertex.
func (p Polygon) Map(fn func(math.Vec2) math.Vec2) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = fn(v)
	}
	return out
}

// Contains reports whether pt is inside p using an even-odd crossing count.
//
// Edges are half-open: an edge is crossed when exactly one endpoint lies
// strictly above pt.Y and pt lies strictly left of the crossing. For an
// axis-aligned polygon this puts the left and bottom edges inside and the
// right and top edges outside, so abutting polygons never both claim a
// boundary point.
func (p Polygon) Contains(pt math.Vec2) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	x, y := float64(pt.X), float64(pt.Y)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := float64(p[i].X), float64(p[i].Y)
		xj, yj := float64(p[j].X), float64(p[j].Y)
		if (yi > y) == (yj > y) {
			continue
		}
		cross := (xj-xi)*(y-yi)/(yj-yi) + xi
		if x < cross {
			inside = !inside
		}
	}
	return inside
}
