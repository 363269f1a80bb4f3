package material

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// NewDiffuse creates a new diffuse material
func NewDiffuse(albedo ColorSource) Material {
	return Material{Kind: Diffuse, Albedo: albedo}
}

// NewLambertian creates a new diffuse material with a solid color
func NewLambertian(albedo core.Color) Material {
	return NewDiffuse(NewSolidColor(albedo))
}

// scatterDiffuse picks a direction around the normal using a random unit vector offset
func scatterDiffuse(hit SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	direction := hit.Normal.Unit().Add(core.RandomUnitVector(sampler))

	// Catch degenerate scatter direction
	if direction.NearZero() {
		return hit.Normal
	}
	return direction
}
