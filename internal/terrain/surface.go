// Package terrain rasterizes polygons into destructible cell grids and
// answers world-space queries against them.
//
// A Surface stores cells in its own local frame at CellsPerUnit cells per
// world unit. Cell (ix, iy) is sampled at local point (ix, iy)/CellsPerUnit.
// The local-to-world pose comes from a PoseSource, usually a physics body,
// and is re-read on every query.
package terrain

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/pkg/geom"
	vmath "github.com/Faultbox/midgard-terrain/pkg/math"
	"github.com/Faultbox/midgard-terrain/pkg/sparse"
)

// CellsPerUnit is the grid resolution.
const CellsPerUnit = 10

// stamp is the plus-shaped dilation applied around each interior sample.
// Diagonal neighbours are never stamped so boundaries stay axis-aligned.
var stamp = [5][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Surface is a rasterized destructible body. It is not safe for concurrent
// use; independent surfaces share no state.
type Surface struct {
	grid     *sparse.Grid[Cell]
	local    geom.Polygon
	pose     PoseSource
	material Cell

	log     *zap.Logger
	metrics *Metrics
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger used for rasterization and rejected writes.
func WithLogger(l *zap.Logger) Option {
	return func(s *Surface) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records surface activity in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Surface) {
		s.metrics = m
	}
}

// WithMaxExtent limits the surface grid to n cells per axis.
func WithMaxExtent(n int) Option {
	return func(s *Surface) {
		s.grid = s.newGrid(n)
	}
}

// New creates a surface posed by pose and fills it with material by
// rasterizing the world-space polygon poly. A non-solid material falls back
// to Dirt. A degenerate polygon yields an empty surface and no error.
func New(poly geom.Polygon, pose PoseSource, material Cell, opts ...Option) (*Surface, error) {
	if pose == nil {
		pose = StaticPose{}
	}
	if !material.Solid() {
		material = Dirt
	}
	s := &Surface{
		pose:     pose,
		material: material,
		log:      zap.NewNop(),
	}
	s.grid = s.newGrid(sparse.DefaultMaxExtent)
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Rasterize(poly); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Surface) newGrid(maxExtent int) *sparse.Grid[Cell] {
	return sparse.New[Cell](
		sparse.WithMaxExtent(maxExtent),
		sparse.WithGrowHook(func(from, to geom.Box) {
			s.metrics.grew()
			s.log.Debug("terrain grid grew",
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		}),
	)
}

// Rasterize replaces the surface contents with the world-space polygon poly
// under the current pose. Every grid sample inside the polygon is stamped
// solid together with its four axis neighbours. On error the surface is
// left empty.
func (s *Surface) Rasterize(poly geom.Polygon) error {
	pose := s.pose.Pose()
	s.grid.Clear()
	s.local = poly.Map(pose.ApplyInverse)

	if s.local.Degenerate() {
		s.log.Debug("degenerate terrain polygon", zap.Int("vertices", len(poly)))
		return nil
	}

	b := s.local.Bounds()
	x0, y0 := cellIndex(b.Min)
	x1, y1 := cellIndex(b.Max)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !s.local.Contains(cellPoint(x, y)) {
				continue
			}
			for _, d := range stamp {
				if err := s.grid.Set(x+d[0], y+d[1], s.material); err != nil {
					s.grid.Clear()
					s.metrics.rejected()
					s.log.Warn("terrain rasterization rejected", zap.Error(err))
					return fmt.Errorf("rasterizing terrain: %w", err)
				}
			}
		}
	}

	n := s.SolidCount()
	s.metrics.rasterized(n)
	s.log.Debug("terrain rasterized",
		zap.Int("cells", n),
		zap.Stringer("box", s.grid.InnerBox()),
		zap.Stringer("material", s.material))
	return nil
}

// Terrain returns s, so any actor embedding a *Surface is Destructible.
func (s *Surface) Terrain() *Surface {
	return s
}

// Material returns the material used by Rasterize.
func (s *Surface) Material() Cell {
	return s.material
}

// LocalPolygon returns the rasterized polygon in local space.
// The slice must not be modified.
func (s *Surface) LocalPolygon() geom.Polygon {
	return s.local
}

// Pose returns the current local-to-world pose.
func (s *Surface) Pose() vmath.Transform {
	return s.pose.Pose()
}

// Cell returns the cell at grid index (ix, iy).
func (s *Surface) Cell(ix, iy int) Cell {
	return s.grid.Get(ix, iy)
}

// SetCell writes c at grid index (ix, iy).
func (s *Surface) SetCell(ix, iy int, c Cell) error {
	if err := s.grid.Set(ix, iy, c); err != nil {
		s.metrics.rejected()
		s.log.Warn("terrain write rejected",
			zap.Int("x", ix),
			zap.Int("y", iy),
			zap.Error(err))
		return err
	}
	return nil
}

// CellIndex returns the grid index nearest to the world point p.
func (s *Surface) CellIndex(p vmath.Vec2) (ix, iy int) {
	return cellIndex(s.pose.Pose().ApplyInverse(p))
}

// CellCenter returns the world position sampled by grid index (ix, iy).
func (s *Surface) CellCenter(ix, iy int) vmath.Vec2 {
	return s.pose.Pose().Apply(cellPoint(ix, iy))
}

// ElementAt returns the cell nearest to the world point p.
func (s *Surface) ElementAt(p vmath.Vec2) Cell {
	return s.Cell(s.CellIndex(p))
}

// SetElementAt writes c into the cell nearest to the world point p.
func (s *Surface) SetElementAt(p vmath.Vec2, c Cell) error {
	ix, iy := s.CellIndex(p)
	return s.SetCell(ix, iy, c)
}

// FindElementNear reports whether the cell nearest to p or any of its four
// axis neighbours is solid.
func (s *Surface) FindElementNear(p vmath.Vec2) bool {
	ix, iy := s.CellIndex(p)
	for _, d := range stamp {
		if s.grid.Get(ix+d[0], iy+d[1]).Solid() {
			return true
		}
	}
	return false
}

// ContainsPoint reports whether the world point p lies inside the analytic
// polygon, independent of raster resolution.
func (s *Surface) ContainsPoint(p vmath.Vec2) bool {
	return s.local.Contains(s.pose.Pose().ApplyInverse(p))
}

// Bounds returns the world-space bounding rect of the occupied cells under
// the current pose. It may be conservative after cells are cleared.
func (s *Surface) Bounds() geom.Rect {
	if s.grid.IsEmpty() {
		return geom.EmptyRect()
	}
	box := s.grid.InnerBox()
	local := geom.RectFromPoints(cellPoint(box.X0, box.Y0), cellPoint(box.X1, box.Y1))

	pose := s.pose.Pose()
	world := geom.EmptyRect()
	for _, c := range local.Corners() {
		world = world.Include(pose.Apply(c))
	}
	return world
}

// GridBox returns the occupied extent in grid indices.
func (s *Surface) GridBox() geom.Box {
	return s.grid.InnerBox()
}

// IsEmpty reports whether the surface holds no known cells.
func (s *Surface) IsEmpty() bool {
	return s.grid.IsEmpty()
}

// Compact shrinks the occupied extent after cells were cleared.
func (s *Surface) Compact() {
	s.grid.Normalize()
}

// SolidCount returns the number of solid cells.
func (s *Surface) SolidCount() int {
	n := 0
	s.grid.Range(func(_, _ int, _ Cell) bool {
		n++
		return true
	})
	return n
}

func cellIndex(local vmath.Vec2) (int, int) {
	return toIndex(local.X), toIndex(local.Y)
}

// toIndex rounds half up: floor(v*CellsPerUnit + 0.5).
func toIndex(v float32) int {
	return int(math.Floor(float64(v)*CellsPerUnit + 0.5))
}

func cellPoint(ix, iy int) vmath.Vec2 {
	return vmath.Vec2{X: float32(ix) / CellsPerUnit, Y: float32(iy) / CellsPerUnit}
}
