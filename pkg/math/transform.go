package math

import "math"

// Transform is a rigid 2D pose: a rotation about the local origin followed
// by a translation. It maps local space into world space.
type Transform struct {
	Position Vec2
	Angle    float32 // radians, counter-clockwise
}

// IdentityTransform returns the pose that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{}
}

// Apply maps a local point to world space.
func (t Transform) Apply(local Vec2) Vec2 {
	c, s := t.sincos()
	return local.rotate(c, s).Add(t.Position)
}

// ApplyInverse maps a world point to local space.
func (t Transform) ApplyInverse(world Vec2) Vec2 {
	c, s := t.sincos()
	return world.Sub(t.Position).rotate(c, -s)
}

// Inverse returns the pose that undoes t.
func (t Transform) Inverse() Transform {
	return Transform{
		Position: Vec2{}.Sub(t.Position).Rotate(-t.Angle),
		Angle:    -t.Angle,
	}
}

// sincos returns exact values for a zero angle so an unrotated pose is a
// pure translation.
func (t Transform) sincos() (c, s float32) {
	if t.Angle == 0 {
		return 1, 0
	}
	sn, cs := math.Sincos(float64(t.Angle))
	return float32(cs), float32(sn)
}
