// Package geom provides the axis-aligned boxes and polygons used to build
// and query terrain grids.
package geom

import "fmt"

// Box is a half-open integer box covering cells [X0,X1) x [Y0,Y1).
// Any box with X0 >= X1 or Y0 >= Y1 is empty; the zero Box is empty.
type Box struct {
	X0, Y0 int
	X1, Y1 int
}

// PointBox returns the box holding the single cell (x, y).
func PointBox(x, y int) Box {
	return Box{X0: x, Y0: y, X1: x + 1, Y1: y + 1}
}

// Empty reports whether b holds no cells.
func (b Box) Empty() bool {
	return b.X0 >= b.X1 || b.Y0 >= b.Y1
}

// Width returns the number of columns, 0 for an empty box.
func (b Box) Width() int {
	if b.Empty() {
		return 0
	}
	return b.X1 - b.X0
}

// Height returns the number of rows, 0 for an empty box.
func (b Box) Height() int {
	if b.Empty() {
		return 0
	}
	return b.Y1 - b.Y0
}

// Area returns Width * Height.
func (b Box) Area() int {
	return b.Width() * b.Height()
}

// Contains reports whether the cell (x, y) lies in b.
func (b Box) Contains(x, y int) bool {
	return x >= b.X0 && x < b.X1 && y >= b.Y0 && y < b.Y1
}

// ContainsBox reports whether every cell of o lies in b.
// An empty box is contained in anything.
func (b Box) ContainsBox(o Box) bool {
	if o.Empty() {
		return true
	}
	if b.Empty() {
		return false
	}
	return o.X0 >= b.X0 && o.X1 <= b.X1 && o.Y0 >= b.Y0 && o.Y1 <= b.Y1
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Box{
		X0: min(b.X0, o.X0),
		Y0: min(b.Y0, o.Y0),
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
	}
}

// Include returns b grown to contain the cell (x, y).
func (b Box) Include(x, y int) Box {
	return b.Union(PointBox(x, y))
}

// Grow pads b by dx columns on both X sides and dy rows on both Y sides.
func (b Box) Grow(dx, dy int) Box {
	if b.Empty() {
		return b
	}
	return Box{X0: b.X0 - dx, Y0: b.Y0 - dy, X1: b.X1 + dx, Y1: b.Y1 + dy}
}

func (b Box) String() string {
	if b.Empty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%d,%d)x[%d,%d)", b.X0, b.X1, b.Y0, b.Y1)
}
