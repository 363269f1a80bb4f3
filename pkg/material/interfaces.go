package material

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// Kind selects the scattering behavior of a Material
type Kind int

const (
	// Diffuse scatters around the normal (Lambertian)
	Diffuse Kind = iota
	// Metal reflects specularly, perturbed by Fuzz
	Metal
	// Dielectric reflects or refracts according to RefractiveIndex
	Dielectric
)

// String returns the lower-case name used in scene files and logs
func (k Kind) String() string {
	switch k {
	case Diffuse:
		return "diffuse"
	case Metal:
		return "metal"
	case Dielectric:
		return "dielectric"
	default:
		return "unknown"
	}
}

// ParseKind converts a scene file name back into a Kind
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "diffuse", "lambertian":
		return Diffuse, true
	case "metal":
		return Metal, true
	case "dielectric", "glass":
		return Dielectric, true
	default:
		return 0, false
	}
}

// Material describes how a surface scatters light.
// Fuzz is only read for Metal and RefractiveIndex only for Dielectric.
type Material struct {
	Kind            Kind
	Albedo          ColorSource
	Fuzz            float64 // Metal roughness in [0, 1]
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// SurfaceInteraction contains the geometric information a material needs to scatter
type SurfaceInteraction struct {
	Point     core.Point3 // Point of intersection
	Normal    core.Vec3   // Surface normal, always opposing the incoming ray
	FrontFace bool        // Whether the ray hit the outside of the surface
	UV        core.Vec2   // Texture coordinates
}

// Scatter returns the ray leaving the surface for the given incoming ray.
// The scattered ray always starts at the interaction point.
func (m Material) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) core.Ray {
	var direction core.Vec3
	switch m.Kind {
	case Metal:
		direction = scatterMetal(m.Fuzz, rayIn, hit, sampler)
	case Dielectric:
		direction = scatterDielectric(m.RefractiveIndex, rayIn, hit, sampler)
	default:
		direction = scatterDiffuse(hit, sampler)
	}
	return core.NewRay(hit.Point, direction)
}

// AlbedoAt evaluates the material color at the interaction
func (m Material) AlbedoAt(hit SurfaceInteraction) core.Color {
	if m.Albedo == nil {
		return core.NewColor(0, 0, 0)
	}
	return m.Albedo.Evaluate(hit.UV, hit.Point)
}
