package integrator

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
)

// World answers closest-hit queries. *scene.Scene implements it.
type World interface {
	NearestHit(ray core.Ray, tMin, tMax float64) (*geometry.HitRecord, bool)
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the radiance carried back along ray, following at most
	// depth bounces.
	RayColor(ray core.Ray, world World, depth int, sampler core.Sampler) core.Color
}
