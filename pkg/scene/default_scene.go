package scene

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/material"
)

// NewDefaultScene creates three noise-textured spheres (metal, diffuse, glass) on a grey ground
func NewDefaultScene(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1, 5),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        50.0,
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	metalNoise := material.NewNoise(material.LightBlue, 10, 1)
	diffuseNoise := material.NewNoise(material.LightRed, 50, 2)
	glassNoise := material.NewNoise(material.LightGreen, 10, 3)

	left := geometry.NewSphere(core.NewVec3(-2.1, 1, 0), 1, material.NewMetal(metalNoise, 0))
	center := geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDiffuse(diffuseNoise))
	right := geometry.NewSphere(core.NewVec3(2.1, 1, 0), 1, material.NewDielectric(glassNoise, 1.5))
	ground := geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000,
		material.NewLambertian(material.Grey))

	s := New(left, core.NewSeededSampler(seed))
	s.Push(center)
	s.Push(right)
	s.Push(ground)

	s.SetCamera(cameraConfig)
	s.SamplingConfig.SamplesPerPixel = 200
	s.SamplingConfig.MaxDepth = 100

	return s
}

// NewTwoSpheresScene creates a small sphere resting on a very large one
func NewTwoSpheresScene(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	ground := geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100,
		material.NewLambertian(core.NewColor(0.8, 0.8, 0.0)))
	front := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5,
		material.NewLambertian(core.NewColor(0.1, 0.2, 0.5)))

	s := New(ground, core.NewSeededSampler(seed))
	s.Push(front)

	s.SetCamera(cameraConfig)
	s.SamplingConfig.SamplesPerPixel = 100
	s.SamplingConfig.MaxDepth = 50

	return s
}

// NewCheckeredScene creates metal, diffuse and glass spheres on a checkered ground
func NewCheckeredScene(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 2, 6),
		LookAt:        core.NewVec3(0, 1, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          45.0,
		Aperture:      0.05,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	checkered := material.NewCheckered(
		material.NewSolidColor(material.Grey),
		material.NewSolidColor(material.White),
		0.02,
	)
	ground := geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewDiffuse(checkered))

	s := New(ground, core.NewSeededSampler(seed))
	s.Push(geometry.NewSphere(core.NewVec3(-2.1, 1, 0), 1,
		material.NewMetal(material.NewSolidColor(core.NewColor(0.8, 0.8, 0.8)), 0.1)))
	s.Push(geometry.NewSphere(core.NewVec3(0, 1, 0), 1,
		material.NewDiffuse(material.NewSolidColor(material.LightRed))))
	s.Push(geometry.NewSphere(core.NewVec3(2.1, 1, 0), 1,
		material.NewDielectric(material.NewSolidColor(material.White), 1.5)))

	s.SetCamera(cameraConfig)
	s.SamplingConfig.SamplesPerPixel = 100
	s.SamplingConfig.MaxDepth = 50

	return s
}
