package geom

import (
	"fmt"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Rect is a closed float box in world or local units.
// Use EmptyRect as the identity for Include and Union.
type Rect struct {
	Min, Max math.Vec2
	valid    bool
}

// EmptyRect returns a rect that contains no points.
func EmptyRect() Rect {
	return Rect{}
}

// RectFromPoints returns the smallest rect containing all points.
func RectFromPoints(points ...math.Vec2) Rect {
	r := EmptyRect()
	for _, p := range points {
		r = r.Include(p)
	}
	return r
}

// Empty reports whether r contains no points. A single point is not empty.
func (r Rect) Empty() bool {
	return !r.valid
}

// Width returns Max.X - Min.X, 0 for an empty rect.
func (r Rect) Width() float32 {
	if r.Empty() {
		return 0
	}
	return r.Max.X - r.Min.X
}

// Height returns Max.Y - Min.Y, 0 for an empty rect.
func (r Rect) Height() float32 {
	if r.Empty() {
		return 0
	}
	return r.Max.Y - r.Min.Y
}

// Include returns r grown to contain p.
func (r Rect) Include(p math.Vec2) Rect {
	if r.Empty() {
		return Rect{Min: p, Max: p, valid: true}
	}
	return Rect{
		Min:   math.Vec2{X: min(r.Min.X, p.X), Y: min(r.Min.Y, p.Y)},
		Max:   math.Vec2{X: max(r.Max.X, p.X), Y: max(r.Max.Y, p.Y)},
		valid: true,
	}
}

// Union returns the smallest rect containing r and o.
func (r Rect) Union(o Rect) Rect {
	if o.Empty() {
		return r
	}
	return r.Include(o.Min).Include(o.Max)
}

// Contains reports whether p lies in r, boundary included.
func (r Rect) Contains(p math.Vec2) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Corners returns the four corners counter-clockwise from Min.
func (r Rect) Corners() [4]math.Vec2 {
	return [4]math.Vec2{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}

func (r Rect) String() string {
	if r.Empty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%g,%g]..[%g,%g]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
