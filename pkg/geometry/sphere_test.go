package geometry

import (
	"math"
	"testing"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/material"
	"github.com/stretchr/testify/require"
)

func greyDiffuse() material.Material {
	return material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))
}

func TestSphere_Hit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1.0, greyDiffuse())

	tests := []struct {
		name        string
		ray         core.Ray
		tMin        float64
		tMax        float64
		expectHit   bool
		expectedT   float64
		expectFront bool
		normal      core.Vec3
	}{
		{
			name:        "Head on from outside",
			ray:         core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			tMin:        0.001,
			tMax:        math.Inf(1),
			expectHit:   true,
			expectedT:   4.0,
			expectFront: true,
			normal:      core.NewVec3(0, 0, 1),
		},
		{
			name:        "Non unit direction scales t",
			ray:         core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -2)),
			tMin:        0.001,
			tMax:        math.Inf(1),
			expectHit:   true,
			expectedT:   2.0,
			expectFront: true,
			normal:      core.NewVec3(0, 0, 1),
		},
		{
			name:        "From inside hits back face",
			ray:         core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1)),
			tMin:        0.001,
			tMax:        math.Inf(1),
			expectHit:   true,
			expectedT:   1.0,
			expectFront: false,
			normal:      core.NewVec3(0, 0, 1),
		},
		{
			name:        "Near root outside interval uses far root",
			ray:         core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			tMin:        4.5,
			tMax:        math.Inf(1),
			expectHit:   true,
			expectedT:   6.0,
			expectFront: false,
			normal:      core.NewVec3(0, 0, 1),
		},
		{
			name:      "Both roots outside interval",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			tMin:      0.001,
			tMax:      3.0,
			expectHit: false,
		},
		{
			name:      "Miss",
			ray:       core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, 0, -1)),
			tMin:      0.001,
			tMax:      math.Inf(1),
			expectHit: false,
		},
		{
			name:      "Sphere behind ray",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)),
			tMin:      0.001,
			tMax:      math.Inf(1),
			expectHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(tt.ray, tt.tMin, tt.tMax)
			require.Equal(t, tt.expectHit, isHit)
			if !tt.expectHit {
				require.Nil(t, hit)
				return
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%v, got %v", tt.expectedT, hit.T)
			}
			require.Equal(t, tt.expectFront, hit.FrontFace)
			if hit.Normal.Subtract(tt.normal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.normal, hit.Normal)
			}
			// The stored normal always opposes the incoming ray
			require.LessOrEqual(t, hit.Normal.Dot(tt.ray.Direction), 0.0)
			require.Equal(t, tt.ray.At(hit.T), hit.Point)
			require.Equal(t, tt.ray, hit.Ray)
		})
	}
}

func TestSphere_AnalyticRoots(t *testing.T) {
	sampler := core.NewSeededSampler(42)

	for i := 0; i < 200; i++ {
		center := core.RandomVec3(sampler, -5, 5)
		radius := core.RandomRange(sampler, 0.1, 3)
		sphere := NewSphere(center, radius, greyDiffuse())

		origin := core.RandomVec3(sampler, -20, 20)
		direction := center.Subtract(origin).Add(core.RandomVec3(sampler, -1, 1))

		ray := core.NewRay(origin, direction)
		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			continue
		}

		// Hit point lies on the sphere surface
		distance := hit.Point.Subtract(center).Length()
		if math.Abs(distance-radius) > 1e-6*radius {
			t.Fatalf("Hit point %v is %v from center, expected radius %v", hit.Point, distance, radius)
		}
		require.InDelta(t, 1.0, hit.Normal.Length(), 1e-9)
		require.LessOrEqual(t, hit.Normal.Dot(ray.Direction), 0.0)
		if origin.Subtract(center).Length() > radius+0.1 {
			require.True(t, hit.FrontFace)
		}
	}
}

func TestSphere_UV(t *testing.T) {
	tests := []struct {
		name   string
		normal core.Vec3
		uv     core.Vec2
	}{
		{"Plus X", core.NewVec3(1, 0, 0), core.NewVec2(0.5, 0.5)},
		{"Plus Y", core.NewVec3(0, 1, 0), core.NewVec2(0.5, 1.0)},
		{"Minus Y", core.NewVec3(0, -1, 0), core.NewVec2(0.5, 0.0)},
		{"Minus X", core.NewVec3(-1, 0, 0), core.NewVec2(0.0, 0.5)},
		{"Plus Z", core.NewVec3(0, 0, 1), core.NewVec2(0.25, 0.5)},
		{"Minus Z", core.NewVec3(0, 0, -1), core.NewVec2(0.75, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uv := sphereUV(tt.normal)
			require.InDelta(t, tt.uv.X, uv.X, 1e-9)
			require.InDelta(t, tt.uv.Y, uv.Y, 1e-9)
		})
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2, greyDiffuse())

	box := sphere.BoundingBox()

	require.Equal(t, core.NewVec3(-1, 0, 1), box.Min)
	require.Equal(t, core.NewVec3(3, 4, 5), box.Max)
}

func TestTwoSpheres_FrontHitFirst(t *testing.T) {
	ground := NewSphere(core.NewVec3(0, -100.5, -1), 100, greyDiffuse())
	front := NewSphere(core.NewVec3(0, 0, -1), 0.5, greyDiffuse())
	bvh := NewBVH([]Shape{ground, front}, core.NewSeededSampler(42))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, isHit := bvh.Hit(ray, 0.001, 1000)

	require.True(t, isHit)
	require.InDelta(t, 0.5, hit.T, 1e-9)
	require.InDelta(t, 0.0, hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length(), 1e-9)
	require.True(t, hit.FrontFace)
}
