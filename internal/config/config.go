// Package config handles terrain tool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
)

// Config holds all tool settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds surface construction settings.
type TerrainConfig struct {
	MaxExtent       int    `yaml:"max_extent"`       // Cells per axis, 0 = unlimited
	DefaultMaterial string `yaml:"default_material"` // Used by bodies without a material
}

// ViewerConfig holds interactive view settings.
type ViewerConfig struct {
	DigRadius  float32 `yaml:"dig_radius"`  // World units
	EmitRadius float32 `yaml:"emit_radius"` // World units
	FPS        int     `yaml:"fps"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // Empty disables the endpoint
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			MaxExtent:       4096,
			DefaultMaterial: "dirt",
		},
		Viewer: ViewerConfig{
			DigRadius:  0.3,
			EmitRadius: 0.2,
			FPS:        30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Material returns the parsed default material.
func (c *Config) Material() (terrain.Cell, error) {
	return terrain.ParseCell(c.Terrain.DefaultMaterial)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Terrain.MaxExtent < 0 {
		errs = append(errs, fmt.Errorf("terrain.max_extent must not be negative, got %d", c.Terrain.MaxExtent))
	}
	if m, err := c.Material(); err != nil {
		errs = append(errs, fmt.Errorf("terrain.default_material: %w", err))
	} else if !m.Solid() {
		errs = append(errs, errors.New("terrain.default_material must be solid"))
	}
	if c.Viewer.DigRadius <= 0 {
		errs = append(errs, fmt.Errorf("viewer.dig_radius must be positive, got %g", c.Viewer.DigRadius))
	}
	if c.Viewer.EmitRadius <= 0 {
		errs = append(errs, fmt.Errorf("viewer.emit_radius must be positive, got %g", c.Viewer.EmitRadius))
	}
	if c.Viewer.FPS <= 0 {
		errs = append(errs, fmt.Errorf("viewer.fps must be positive, got %d", c.Viewer.FPS))
	}
	return errors.Join(errs...)
}
