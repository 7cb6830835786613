// Package sparse provides a growable 2D cell store over unbounded integer
// coordinates.
//
// A Grid keeps one contiguous row-major buffer covering its outer box. Writes
// outside the outer box reallocate with padding proportional to the occupied
// size, so repeated edge growth reallocates O(log n) times. The inner box
// tracks the occupied extent; clearing cells only marks it stale, and the
// tight extent is recomputed lazily right before a reallocation.
package sparse

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/midgard-terrain/pkg/geom"
)

// DefaultMaxExtent is the default limit on the occupied width and height.
// With a limit of n the buffer spans at most about 1.42n cells per axis,
// about 2n² cells in total: 512 MiB of uint8 cells at the default.
const DefaultMaxExtent = 1 << 14

// maxCoord bounds coordinates so box arithmetic cannot overflow.
const maxCoord = 1 << 30

// ErrExtentExceeded is returned by Set when the write would grow the occupied
// extent past the grid's maximum.
var ErrExtentExceeded = errors.New("sparse: grid extent exceeded")

// Grid is a 2D store of T values. The zero value of T is the empty cell.
// A Grid is not safe for concurrent use.
type Grid[T comparable] struct {
	outer      geom.Box
	inner      geom.Box
	normalized bool
	cells      []T

	maxExtent int
	onGrow    func(from, to geom.Box)
}

// Option configures a Grid.
type Option func(*options)

type options struct {
	maxExtent int
	onGrow    func(from, to geom.Box)
}

// WithMaxExtent limits the occupied width and height to n cells, and with
// it the buffer to about 2n² cells. Zero disables the limit.
func WithMaxExtent(n int) Option {
	return func(o *options) {
		o.maxExtent = n
	}
}

// WithGrowHook registers fn to run after every reallocation with the old and
// new outer boxes.
func WithGrowHook(fn func(from, to geom.Box)) Option {
	return func(o *options) {
		o.onGrow = fn
	}
}

// New creates an empty grid with no buffer.
func New[T comparable](opts ...Option) *Grid[T] {
	o := options{maxExtent: DefaultMaxExtent}
	for _, opt := range opts {
		opt(&o)
	}
	return &Grid[T]{
		normalized: true,
		maxExtent:  o.maxExtent,
		onGrow:     o.onGrow,
	}
}

// Get returns the value at (x, y), or the zero value if nothing is stored.
func (g *Grid[T]) Get(x, y int) T {
	if !g.inner.Contains(x, y) {
		var zero T
		return zero
	}
	return g.cells[g.index(x, y)]
}

// Set stores v at (x, y). Storing the zero value clears the cell.
// The only error is ErrExtentExceeded, in which case nothing observable
// changes.
func (g *Grid[T]) Set(x, y int, v T) error {
	var zero T
	if v == zero {
		if g.inner.Contains(x, y) {
			g.cells[g.index(x, y)] = zero
			g.normalized = false
		}
		return nil
	}

	switch {
	case g.inner.Contains(x, y):
	case g.outer.Contains(x, y):
		target, err := g.expand(x, y)
		if err != nil {
			return err
		}
		g.inner = target
	default:
		if err := g.grow(x, y); err != nil {
			return err
		}
	}
	g.cells[g.index(x, y)] = v
	return nil
}

// Normalize shrinks the inner box to the exact extent of non-empty cells.
// It is a no-op when the grid is already normalized.
func (g *Grid[T]) Normalize() {
	if g.normalized {
		return
	}
	var zero T
	tight := geom.Box{}
	for y := g.inner.Y0; y < g.inner.Y1; y++ {
		row := g.index(g.inner.X0, y)
		for x := g.inner.X0; x < g.inner.X1; x++ {
			if g.cells[row+x-g.inner.X0] != zero {
				tight = tight.Include(x, y)
			}
		}
	}
	g.inner = tight
	g.normalized = true
}

// Normalized reports whether the inner box is known to be tight.
func (g *Grid[T]) Normalized() bool {
	return g.normalized
}

// IsEmpty reports whether the inner box is empty. A grid whose cells were all
// cleared stays non-empty until it is normalized.
func (g *Grid[T]) IsEmpty() bool {
	return g.inner.Empty()
}

// InnerBox returns the known occupied extent. It is an upper bound unless
// the grid is normalized.
func (g *Grid[T]) InnerBox() geom.Box {
	return g.inner
}

// OuterBox returns the allocated extent.
func (g *Grid[T]) OuterBox() geom.Box {
	return g.outer
}

// Range calls fn for every non-empty cell in the inner box, rows ascending
// in Y then X. It stops early when fn returns false. fn must not mutate g.
func (g *Grid[T]) Range(fn func(x, y int, v T) bool) {
	var zero T
	for y := g.inner.Y0; y < g.inner.Y1; y++ {
		row := g.index(g.inner.X0, y)
		for x := g.inner.X0; x < g.inner.X1; x++ {
			v := g.cells[row+x-g.inner.X0]
			if v == zero {
				continue
			}
			if !fn(x, y, v) {
				return
			}
		}
	}
}

// Clear drops every cell and releases the buffer.
func (g *Grid[T]) Clear() {
	g.outer = geom.Box{}
	g.inner = geom.Box{}
	g.cells = nil
	g.normalized = true
}

func (g *Grid[T]) index(x, y int) int {
	return (y-g.outer.Y0)*(g.outer.X1-g.outer.X0) + (x - g.outer.X0)
}

// grow reallocates the buffer so that (x, y) lies in the outer box.
func (g *Grid[T]) grow(x, y int) error {
	if x < -maxCoord || x > maxCoord || y < -maxCoord || y > maxCoord {
		return fmt.Errorf("%w: coordinate (%d,%d) out of range", ErrExtentExceeded, x, y)
	}
	g.Normalize()
	target := g.inner.Include(x, y)
	if err := g.checkExtent(target, x, y); err != nil {
		return err
	}

	outer := target.Grow(g.padding(target.Width()), g.padding(target.Height()))
	cells := make([]T, outer.Area())
	stride := outer.Width()
	for cy := g.inner.Y0; cy < g.inner.Y1; cy++ {
		src := g.index(g.inner.X0, cy)
		dst := (cy-outer.Y0)*stride + (g.inner.X0 - outer.X0)
		copy(cells[dst:dst+g.inner.Width()], g.cells[src:src+g.inner.Width()])
	}

	from := g.outer
	g.outer = outer
	g.cells = cells
	g.inner = target
	if g.onGrow != nil {
		g.onGrow(from, outer)
	}
	return nil
}

// expand returns the inner box grown to hold (x, y), which already lies in
// the outer box. A stale inner box is normalized before the write is
// rejected.
func (g *Grid[T]) expand(x, y int) (geom.Box, error) {
	target := g.inner.Include(x, y)
	if g.checkExtent(target, x, y) != nil && !g.normalized {
		g.Normalize()
		target = g.inner.Include(x, y)
	}
	return target, g.checkExtent(target, x, y)
}

func (g *Grid[T]) checkExtent(target geom.Box, x, y int) error {
	if g.maxExtent > 0 && (target.Width() > g.maxExtent || target.Height() > g.maxExtent) {
		return fmt.Errorf("%w: writing (%d,%d) needs %dx%d cells, limit %d",
			ErrExtentExceeded, x, y, target.Width(), target.Height(), g.maxExtent)
	}
	return nil
}

// padding returns the per-side padding for an occupied dimension of size n.
// With a limit, padding past maxExtent-n is never usable and is dropped.
func (g *Grid[T]) padding(n int) int {
	p := growPadding(n)
	if g.maxExtent > 0 {
		p = min(p, g.maxExtent-n)
	}
	return p
}

// growPadding returns the per-side padding for a dimension of size n.
func growPadding(n int) int {
	return max(1, int(math.Round(0.5*math.Sqrt2*float64(n))))
}
