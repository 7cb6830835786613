package terrain

// Cells calls fn for every solid cell, rows ascending in Y then X, until fn
// returns false. This is the enumeration collision refitting builds on.
// fn must not mutate the surface.
func (s *Surface) Cells(fn func(ix, iy int, c Cell) bool) {
	s.grid.Range(fn)
}

// Edges returns the boundary edges owned by cell (ix, iy).
func (s *Surface) Edges(ix, iy int) EdgeMask {
	center := s.grid.Get(ix, iy).Solid()
	var m EdgeMask
	if center != s.grid.Get(ix-1, iy).Solid() {
		m |= EdgeLeft
	}
	if center != s.grid.Get(ix, iy-1).Solid() {
		m |= EdgeBottom
	}
	return m
}

// Outline calls fn for every cell owning at least one boundary edge, rows
// ascending, until fn returns false. Empty cells just right of or above the
// occupied extent are included so every boundary edge is reported once.
func (s *Surface) Outline(fn func(ix, iy int, e EdgeMask) bool) {
	box := s.grid.InnerBox()
	if box.Empty() {
		return
	}
	for iy := box.Y0; iy <= box.Y1; iy++ {
		for ix := box.X0; ix <= box.X1; ix++ {
			if e := s.Edges(ix, iy); e != 0 {
				if !fn(ix, iy, e) {
					return
				}
			}
		}
	}
}
