package scene

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/material"
)

// NewBook1Scene creates a field of small random spheres around three large ones.
// The same seed always produces the same layout.
func NewBook1Scene(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	sampler := core.NewSeededSampler(seed)
	ground := geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(material.Grey))

	var shapes []geometry.Shape
	clearance := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMaterial := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+0.9*sampler.Get1D(),
				0.2,
				float64(b)+0.9*sampler.Get1D(),
			)

			if center.Subtract(clearance).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMaterial < 0.8:
				albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
				mat = material.NewLambertian(albedo)
			case chooseMaterial < 0.95:
				albedo := core.RandomVec3(sampler, 0.5, 1)
				fuzz := core.RandomRange(sampler, 0, 0.5)
				mat = material.NewMetal(material.NewSolidColor(albedo), fuzz)
			default:
				mat = material.NewDielectric(material.NewSolidColor(material.White), 1.5)
			}

			shapes = append(shapes, geometry.NewSphere(center, 0.2, mat))
		}
	}

	shapes = append(shapes,
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0,
			material.NewDielectric(material.NewSolidColor(material.White), 1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0,
			material.NewLambertian(core.NewColor(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0,
			material.NewMetal(material.NewSolidColor(core.NewColor(0.7, 0.6, 0.5)), 0.0)),
	)

	s := New(ground, sampler)
	s.Extend(shapes...)

	s.SetCamera(cameraConfig)
	s.SamplingConfig.SamplesPerPixel = 100
	s.SamplingConfig.MaxDepth = 50

	return s
}
