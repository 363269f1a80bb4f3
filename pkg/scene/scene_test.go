package scene

import (
	"math"
	"testing"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/material"
	"github.com/stretchr/testify/require"
)

func grey() material.Material {
	return material.NewLambertian(material.Grey)
}

func TestScene_NewAndPush(t *testing.T) {
	first := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, grey())
	s := New(first, core.NewSeededSampler(42))

	require.Equal(t, 1, s.Len())
	require.True(t, s.Root().IsLeaf())
	require.Equal(t, first.BoundingBox(), s.Root().BoundingBox())

	second := geometry.NewSphere(core.NewVec3(5, 0, 0), 1, grey())
	s.Push(second)

	require.Equal(t, 2, s.Len())
	require.Equal(t, core.SurroundingBox(first.BoundingBox(), second.BoundingBox()), s.Root().BoundingBox())
	require.Same(t, first, s.Shapes()[0])
	require.Same(t, second, s.Shapes()[1])
}

func TestScene_RootBoxIndependentOfBuildOrder(t *testing.T) {
	sampler := core.NewSeededSampler(9)
	var spheres []geometry.Shape
	for i := 0; i < 30; i++ {
		spheres = append(spheres, geometry.NewSphere(
			core.RandomVec3(sampler, -10, 10), core.RandomRange(sampler, 0.1, 2), grey()))
	}

	expected := spheres[0].BoundingBox()
	for _, shape := range spheres[1:] {
		expected = core.SurroundingBox(expected, shape.BoundingBox())
	}

	pushed := New(spheres[0], core.NewSeededSampler(1))
	for _, shape := range spheres[1:] {
		pushed.Push(shape)
	}
	extended := New(spheres[0], core.NewSeededSampler(2))
	extended.Extend(spheres[1:]...)

	require.Equal(t, expected, pushed.Root().BoundingBox())
	require.Equal(t, expected, extended.Root().BoundingBox())
}

func TestScene_NearestHitMatchesLinearHit(t *testing.T) {
	s := NewBook1Scene(7)
	sampler := core.NewSeededSampler(3)

	for i := 0; i < 500; i++ {
		origin := core.NewVec3(
			core.RandomRange(sampler, -12, 12),
			core.RandomRange(sampler, 0.05, 4),
			core.RandomRange(sampler, -12, 12),
		)
		direction := core.RandomUnitVector(sampler)
		ray := core.NewRay(origin, direction)

		expected, expectedHit := s.LinearHit(ray, 0.001, 1000)
		actual, actualHit := s.NearestHit(ray, 0.001, 1000)

		require.Equal(t, expectedHit, actualHit, "ray %v", ray)
		if expectedHit {
			if math.Abs(expected.T-actual.T) > 1e-9 {
				t.Fatalf("Expected t=%v, got %v for ray %v", expected.T, actual.T, ray)
			}
		}
	}
}

func TestTwoSpheresScene(t *testing.T) {
	s := NewTwoSpheresScene(42)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, isHit := s.NearestHit(ray, 0.001, 1000)

	require.True(t, isHit)
	require.InDelta(t, 0.5, hit.T, 1e-9)
	require.InDelta(t, 0.0, hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length(), 1e-9)

	// Straight down lands on the ground sphere
	down := core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, -1, 0))
	hit, isHit = s.NearestHit(down, 0.001, 1000)
	require.True(t, isHit)
	require.Greater(t, hit.Normal.Y, 0.99)
	require.True(t, hit.FrontFace)
}

func TestBuiltInScenes(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Create(name, 42)
			require.NoError(t, err)
			require.NotNil(t, s.Camera)
			require.Greater(t, s.Len(), 0)
			require.Greater(t, s.SamplingConfig.Width, 0)
			require.Greater(t, s.SamplingConfig.Height, 0)
			require.Greater(t, s.SamplingConfig.SamplesPerPixel, 0)
			require.Greater(t, s.SamplingConfig.MaxDepth, 0)
			require.Equal(t, s.Len(), s.Root().Stats().TotalShapes)
		})
	}
}

func TestDefaultScene_Layout(t *testing.T) {
	s := NewDefaultScene(42)

	require.Equal(t, 4, s.Len())
	require.Equal(t, 400, s.SamplingConfig.Width)
	require.Equal(t, 225, s.SamplingConfig.Height)
	require.Equal(t, 200, s.SamplingConfig.SamplesPerPixel)
	require.Equal(t, 100, s.SamplingConfig.MaxDepth)

	kinds := []material.Kind{}
	for _, shape := range s.Shapes() {
		kinds = append(kinds, shape.(*geometry.Sphere).Material.Kind)
	}
	require.Equal(t, []material.Kind{material.Metal, material.Diffuse, material.Dielectric, material.Diffuse}, kinds)
}

func TestBook1Scene_Deterministic(t *testing.T) {
	a := NewBook1Scene(5)
	b := NewBook1Scene(5)

	require.Equal(t, a.Len(), b.Len())
	for i := range a.Shapes() {
		require.Equal(t, a.Shapes()[i].BoundingBox(), b.Shapes()[i].BoundingBox())
	}
}

func TestScene_CameraOverrides(t *testing.T) {
	s, err := Create("default", 1, geometry.CameraConfig{Width: 160})
	require.NoError(t, err)

	require.Equal(t, 160, s.SamplingConfig.Width)
	require.Equal(t, 90, s.SamplingConfig.Height)

	s.Resize(64, 64)
	require.Equal(t, 64, s.SamplingConfig.Width)
	require.Equal(t, 64, s.SamplingConfig.Height)
	require.Equal(t, 1.0, s.CameraConfig.AspectRatio)
}
