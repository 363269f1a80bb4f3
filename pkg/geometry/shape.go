package geometry

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/material"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Ray       core.Ray          // The ray that produced the hit
	T         float64           // Parameter t along the ray
	Point     core.Point3       // Point of intersection
	Normal    core.Vec3         // Surface normal, always opposing the ray
	FrontFace bool              // Whether ray hit the front face
	UV        core.Vec2         // Texture coordinates
	Material  material.Material // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Scatter returns the ray continuing the light path from this hit
func (h *HitRecord) Scatter(sampler core.Sampler) core.Ray {
	return h.Material.Scatter(h.Ray, h.surface(), sampler)
}

// Albedo returns the surface color at the hit
func (h *HitRecord) Albedo() core.Color {
	return h.Material.AlbedoAt(h.surface())
}

func (h *HitRecord) surface() material.SurfaceInteraction {
	return material.SurfaceInteraction{
		Point:     h.Point,
		Normal:    h.Normal,
		FrontFace: h.FrontFace,
		UV:        h.UV,
	}
}
