package material

import (
	"math/rand"
	"testing"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/stretchr/testify/require"
)

// constantSampler always returns the same value
type constantSampler struct {
	value float64
}

func (s constantSampler) Get1D() float64 { return s.value }
func (s constantSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.value, s.value)
}
func (s constantSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.value, s.value, s.value)
}

// scriptedSampler replays values in order and wraps around
type scriptedSampler struct {
	values []float64
	next   int
}

func (s *scriptedSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
func (s *scriptedSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.Get1D(), s.Get1D())
}
func (s *scriptedSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

func TestDiffuse_ScatterAboveSurface(t *testing.T) {
	material := NewLambertian(core.NewColor(0.5, 0.5, 0.5))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	for i := 0; i < 1000; i++ {
		scattered := material.Scatter(rayIn, hit, sampler)

		require.Equal(t, hit.Point, scattered.Origin)
		// unit(n) + unit vector never points below the tangent plane
		require.GreaterOrEqual(t, scattered.Direction.Dot(hit.Normal), 0.0)
	}
}

func TestDiffuse_DegenerateDirectionFallsBackToNormal(t *testing.T) {
	material := NewLambertian(core.NewColor(0.5, 0.5, 0.5))

	// Sample (0.5, 0.5, 0.25) maps to (0, 0, -0.5), which normalizes to exactly oppose the normal
	sampler := &scriptedSampler{values: []float64{0.5, 0.5, 0.25}}
	hit := SurfaceInteraction{
		Point:     core.NewVec3(1, 2, 3),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}
	rayIn := core.NewRay(core.NewVec3(1, 2, 10), core.NewVec3(0, 0, -1))

	scattered := material.Scatter(rayIn, hit, sampler)

	require.Equal(t, hit.Point, scattered.Origin)
	require.Equal(t, hit.Normal, scattered.Direction)
}

func TestMaterial_AlbedoAt(t *testing.T) {
	material := NewLambertian(core.NewColor(0.2, 0.4, 0.6))
	hit := SurfaceInteraction{UV: core.NewVec2(0.3, 0.7)}

	require.Equal(t, core.NewColor(0.2, 0.4, 0.6), material.AlbedoAt(hit))
	require.Equal(t, core.NewColor(0, 0, 0), Material{}.AlbedoAt(hit))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name     string
		expected Kind
		ok       bool
	}{
		{"diffuse", Diffuse, true},
		{"lambertian", Diffuse, true},
		{"metal", Metal, true},
		{"dielectric", Dielectric, true},
		{"glass", Dielectric, true},
		{"emissive", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := ParseKind(tt.name)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, kind)
		})
	}

	require.Equal(t, "metal", Metal.String())
}
