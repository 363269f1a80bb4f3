package material

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// NewMetal creates a new metal material. Fuzz is clamped to [0, 1].
func NewMetal(albedo ColorSource, fuzz float64) Material {
	if fuzz < 0 {
		fuzz = 0
	}
	if fuzz > 1 {
		fuzz = 1
	}
	return Material{Kind: Metal, Albedo: albedo, Fuzz: fuzz}
}

// scatterMetal mirrors the incoming direction and perturbs it by fuzz.
// The result may point below the surface; it is traced anyway.
func scatterMetal(fuzz float64, rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	reflected := rayIn.Direction.Unit().Reflect(hit.Normal)
	return reflected.Add(core.RandomInUnitSphere(sampler).Multiply(fuzz))
}
