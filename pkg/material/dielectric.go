package material

import (
	"math"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// NewDielectric creates a new dielectric material
func NewDielectric(albedo ColorSource, refractiveIndex float64) Material {
	return Material{Kind: Dielectric, Albedo: albedo, RefractiveIndex: refractiveIndex}
}

// scatterDielectric reflects or refracts through the surface
func scatterDielectric(refractiveIndex float64, rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	// Determine if we're entering or exiting the material
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / refractiveIndex
	} else {
		refractionRatio = refractiveIndex
	}

	unitDirection := rayIn.Direction.Unit()

	cosTheta := math.Min(unitDirection.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		return unitDirection.Reflect(hit.Normal)
	}
	return unitDirection.Refract(hit.Normal, refractionRatio)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
