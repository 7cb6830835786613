// Package view draws terrain surfaces as text, either as a plain ASCII dump
// or as an interactive tcell screen.
package view

import (
	"strings"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
)

// Glyph returns the character used for a cell.
func Glyph(c terrain.Cell) rune {
	switch c {
	case terrain.Empty:
		return '.'
	case terrain.Dirt:
		return '#'
	case terrain.Rock:
		return '@'
	case terrain.Sand:
		return ':'
	default:
		return '%'
	}
}

// ASCII renders the occupied grid box of s in local cell space, top row
// first. An empty surface renders as an empty string.
func ASCII(s *terrain.Surface) string {
	box := s.GridBox()
	if box.Empty() {
		return ""
	}
	var b strings.Builder
	b.Grow((box.Width() + 1) * box.Height())
	for iy := box.Y1 - 1; iy >= box.Y0; iy-- {
		for ix := box.X0; ix < box.X1; ix++ {
			b.WriteRune(Glyph(s.Cell(ix, iy)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Perimeter returns the number of boundary edges between solid and empty
// cells.
func Perimeter(s *terrain.Surface) int {
	n := 0
	s.Outline(func(_, _ int, e terrain.EdgeMask) bool {
		if e.Has(terrain.EdgeLeft) {
			n++
		}
		if e.Has(terrain.EdgeBottom) {
			n++
		}
		return true
	})
	return n
}
