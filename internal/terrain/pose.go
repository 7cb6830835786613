package terrain

import "github.com/Faultbox/midgard-terrain/pkg/math"

// PoseSource supplies the current local-to-world pose of a surface. It is
// normally backed by a physics body and is read again on every query.
type PoseSource interface {
	Pose() math.Transform
}

// StaticPose is a PoseSource that never moves.
type StaticPose math.Transform

// Pose returns p as a transform.
func (p StaticPose) Pose() math.Transform {
	return math.Transform(p)
}

// PoseFunc adapts a function to PoseSource.
type PoseFunc func() math.Transform

// Pose calls f.
func (f PoseFunc) Pose() math.Transform {
	return f()
}

// Destructible is implemented by actors that carry a terrain surface.
// Callers use it instead of checking concrete actor types.
type Destructible interface {
	Terrain() *Surface
}

// AsTerrain returns the surface carried by v, if any.
func AsTerrain(v any) (*Surface, bool) {
	d, ok := v.(Destructible)
	if !ok {
		return nil, false
	}
	s := d.Terrain()
	return s, s != nil
}
