package integrator

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

const (
	// Offset that keeps a scattered ray from hitting the surface it left
	shadowAcneEpsilon = 0.001
	maxDistance       = 1000.0
)

var (
	horizonColor = core.NewColor(1.0, 1.0, 1.0)
	zenithColor  = core.NewColor(0.5, 0.7, 1.0)
)

// PathTracingIntegrator implements unidirectional path tracing without
// explicit light sampling. All light comes from the sky gradient.
type PathTracingIntegrator struct{}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{}
}

// RayColor computes the color for a single ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world World, depth int, sampler core.Sampler) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := world.NearestHit(ray, shadowAcneEpsilon, maxDistance)
	if !isHit {
		return BackgroundGradient(ray)
	}

	scattered := hit.Scatter(sampler)
	return hit.Albedo().MultiplyVec(pt.RayColor(scattered, world, depth-1, sampler))
}

// BackgroundGradient blends from white at the horizon to light blue overhead
func BackgroundGradient(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Unit()
	a := 0.5 * (unitDirection.Y + 1.0)
	return core.Lerp(horizonColor, zenithColor, a)
}
