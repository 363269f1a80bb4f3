package material

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	Evaluate(uv core.Vec2, point core.Point3) core.Color
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Color
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Color) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Point3) core.Color {
	return s.Color
}

// Named colors used by the built-in scenes
var (
	Grey       = core.NewColor(0.5, 0.5, 0.5)
	LightBlue  = core.NewColor(0.5, 0.5, 1.0)
	LightRed   = core.NewColor(1.0, 0.5, 0.5)
	LightGreen = core.NewColor(0.5, 1.0, 0.5)
	White      = core.NewColor(1.0, 1.0, 1.0)
)
