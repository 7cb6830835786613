package terrain

import "fmt"

// Cell is a one-byte material tag. Empty is the zero value; every other
// value is solid.
type Cell uint8

// Materials.
const (
	Empty Cell = iota
	Dirt
	Rock
	Sand
)

// Solid reports whether c holds material.
func (c Cell) Solid() bool {
	return c != Empty
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Dirt:
		return "dirt"
	case Rock:
		return "rock"
	case Sand:
		return "sand"
	default:
		return fmt.Sprintf("material(%d)", uint8(c))
	}
}

// ParseCell returns the material named s.
func ParseCell(s string) (Cell, error) {
	switch s {
	case "empty":
		return Empty, nil
	case "dirt":
		return Dirt, nil
	case "rock":
		return Rock, nil
	case "sand":
		return Sand, nil
	}
	return Empty, fmt.Errorf("unknown material %q", s)
}

// EdgeMask flags the boundary edges owned by a cell. A cell owns its left
// and bottom edges; the right and top edges belong to its neighbours.
type EdgeMask uint8

const (
	// EdgeLeft is set when the cell and its left neighbour differ in solidity.
	EdgeLeft EdgeMask = 1 << iota
	// EdgeBottom is set when the cell and the cell below differ in solidity.
	EdgeBottom
)

// Has reports whether every flag in f is set.
func (m EdgeMask) Has(f EdgeMask) bool {
	return m&f == f
}
