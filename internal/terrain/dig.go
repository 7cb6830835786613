package terrain

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	vmath "github.com/Faultbox/midgard-terrain/pkg/math"
)

// ErrEmptyMaterial is returned when emitting the Empty cell.
var ErrEmptyMaterial = errors.New("terrain: emit needs a solid material")

// Dig clears every solid cell whose sample point lies within radius world
// units of center and returns how many cells of each material were removed.
func (s *Surface) Dig(center vmath.Vec2, radius float32) map[Cell]int {
	removed := make(map[Cell]int)
	s.disc(center, radius, func(ix, iy int) {
		c := s.grid.Get(ix, iy)
		if !c.Solid() {
			return
		}
		// Clearing never grows the grid, so it cannot fail.
		_ = s.grid.Set(ix, iy, Empty)
		removed[c]++
	})

	for c, n := range removed {
		s.metrics.dug(c, n)
	}
	if len(removed) > 0 {
		s.log.Debug("terrain dug",
			zap.Float32("x", center.X),
			zap.Float32("y", center.Y),
			zap.Float32("radius", radius),
			zap.Int("materials", len(removed)))
	}
	return removed
}

// Emit fills every empty cell whose sample point lies within radius world
// units of center with c, returning the number of cells filled. Existing
// solid cells keep their material.
func (s *Surface) Emit(center vmath.Vec2, radius float32, c Cell) (int, error) {
	return s.EmitUpTo(center, radius, c, -1)
}

// EmitUpTo is Emit that stops after filling limit cells, in row order.
// A negative limit fills the whole disc.
func (s *Surface) EmitUpTo(center vmath.Vec2, radius float32, c Cell, limit int) (int, error) {
	if !c.Solid() {
		return 0, ErrEmptyMaterial
	}
	filled := 0
	var err error
	s.disc(center, radius, func(ix, iy int) {
		if err != nil || filled == limit || s.grid.Get(ix, iy).Solid() {
			return
		}
		if err = s.SetCell(ix, iy, c); err == nil {
			filled++
		}
	})
	s.metrics.emitted(c, filled)
	if err != nil {
		return filled, fmt.Errorf("emitting %s: %w", c, err)
	}
	return filled, nil
}

// disc calls fn for every grid index sampled inside the world-space disc.
func (s *Surface) disc(center vmath.Vec2, radius float32, fn func(ix, iy int)) {
	if radius < 0 || math.IsNaN(float64(radius)) {
		return
	}
	c := s.pose.Pose().ApplyInverse(center)
	r := float64(radius) * CellsPerUnit
	cx, cy := float64(c.X)*CellsPerUnit, float64(c.Y)*CellsPerUnit

	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	for iy := y0; iy <= y1; iy++ {
		dy := float64(iy) - cy
		for ix := x0; ix <= x1; ix++ {
			dx := float64(ix) - cx
			if dx*dx+dy*dy <= r*r {
				fn(ix, iy)
			}
		}
	}
}
