// Package scene loads terrain bodies from YAML files.
//
// A scene lists bodies, each a polygon plus the pose of the body that owns
// it. Polygons are in world space unless the body sets local: true.
//
//	bodies:
//	  - name: ledge
//	    position: [2, 0]
//	    angle: 0.3
//	    material: rock
//	    polygon: [[1, -0.5], [3, -0.5], [3, 0.5], [1, 0.5]]
package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/geom"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Scene is a set of terrain bodies.
type Scene struct {
	Bodies []Body `yaml:"bodies"`
}

// Body describes one destructible terrain object.
type Body struct {
	Name     string       `yaml:"name"`
	Position [2]float32   `yaml:"position"`
	Angle    float32      `yaml:"angle"`    // Radians
	Material string       `yaml:"material"` // Empty uses the caller's default
	Local    bool         `yaml:"local"`    // Polygon is in body space
	Polygon  [][2]float32 `yaml:"polygon"`
}

// Actor is a named body built into a terrain surface.
type Actor struct {
	Name string
	*terrain.Surface
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML scene and checks body names and materials.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports bodies with missing or duplicate names and unknown
// materials. Degenerate polygons are allowed and build empty surfaces.
func (s *Scene) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("body %d: missing name", i))
		} else if seen[b.Name] {
			errs = append(errs, fmt.Errorf("body %q: duplicate name", b.Name))
		}
		seen[b.Name] = true
		if b.Material != "" {
			if _, err := terrain.ParseCell(b.Material); err != nil {
				errs = append(errs, fmt.Errorf("body %q: %w", b.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Pose returns the body's local-to-world transform.
func (b Body) Pose() math.Transform {
	return math.Transform{
		Position: math.V2(b.Position[0], b.Position[1]),
		Angle:    b.Angle,
	}
}

// WorldPolygon returns the polygon in world space.
func (b Body) WorldPolygon() geom.Polygon {
	poly := make(geom.Polygon, len(b.Polygon))
	for i, v := range b.Polygon {
		poly[i] = math.V2(v[0], v[1])
	}
	if b.Local {
		return poly.Map(b.Pose().Apply)
	}
	return poly
}

// Build rasterizes the body. fallback is used when the body names no
// material.
func (b Body) Build(fallback terrain.Cell, opts ...terrain.Option) (*Actor, error) {
	material := fallback
	if b.Material != "" {
		c, err := terrain.ParseCell(b.Material)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", b.Name, err)
		}
		material = c
	}
	surface, err := terrain.New(b.WorldPolygon(), terrain.StaticPose(b.Pose()), material, opts...)
	if err != nil {
		return nil, fmt.Errorf("body %q: %w", b.Name, err)
	}
	return &Actor{Name: b.Name, Surface: surface}, nil
}

// Build rasterizes every body in order.
func (s *Scene) Build(fallback terrain.Cell, opts ...terrain.Option) ([]*Actor, error) {
	actors := make([]*Actor, 0, len(s.Bodies))
	for _, b := range s.Bodies {
		a, err := b.Build(fallback, opts...)
		if err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}
	return actors, nil
}
