package material

import (
	"math"
	"testing"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"Normal incidence entering glass", 1.0, 1.0 / 1.5, 0.04},
		{"Normal incidence exiting glass", 1.0, 1.5, 0.04},
		{"Grazing incidence", 0.0, 1.0 / 1.5, 1.0},
		{"Matched index", 1.0, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflectance(tt.cosine, tt.ratio)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDielectric_HeadOnRefraction(t *testing.T) {
	glass := NewDielectric(NewSolidColor(core.NewColor(1, 1, 1)), 1.5)
	// Reflectance at normal incidence is 0.04, so a sample of 0.5 refracts
	sampler := constantSampler{value: 0.5}

	rayIn := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -3))
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 1),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	scattered := glass.Scatter(rayIn, hit, sampler)

	require.Equal(t, hit.Point, scattered.Origin)
	if scattered.Direction.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected undeviated refraction, got %v", scattered.Direction)
	}
}

func TestDielectric_SchlickReflection(t *testing.T) {
	glass := NewDielectric(NewSolidColor(core.NewColor(1, 1, 1)), 1.5)
	// A sample below 0.04 always chooses reflection
	sampler := constantSampler{value: 0.01}

	rayIn := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 1),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	scattered := glass.Scatter(rayIn, hit, sampler)

	if scattered.Direction.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected mirror reflection, got %v", scattered.Direction)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(NewSolidColor(core.NewColor(1, 1, 1)), 1.5)
	// Even a sample close to one cannot refract beyond the critical angle
	sampler := constantSampler{value: 0.999}

	// Inside the glass at 60 degrees from the normal: 1.5*sin(60) > 1
	direction := core.NewVec3(math.Sin(math.Pi/3), 0, math.Cos(math.Pi/3))
	rayIn := core.NewRay(core.NewVec3(0, 0, 0), direction)
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 1),
		Normal:    core.NewVec3(0, 0, -1), // Flipped to oppose the ray
		FrontFace: false,
	}

	scattered := glass.Scatter(rayIn, hit, sampler)
	expected := core.NewVec3(math.Sin(math.Pi/3), 0, -math.Cos(math.Pi/3))

	if scattered.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected total internal reflection %v, got %v", expected, scattered.Direction)
	}
}

func TestDielectric_RefractionBendsTowardNormal(t *testing.T) {
	glass := NewDielectric(NewSolidColor(core.NewColor(1, 1, 1)), 1.5)
	sampler := constantSampler{value: 0.999}

	direction := core.NewVec3(1, 0, -1).Unit()
	rayIn := core.NewRay(core.NewVec3(-1, 0, 1), direction)
	hit := SurfaceInteraction{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	scattered := glass.Scatter(rayIn, hit, sampler)

	sinIn := direction.X
	sinOut := scattered.Direction.X / scattered.Direction.Length()
	if math.Abs(sinIn/1.5-sinOut) > 1e-9 {
		t.Errorf("Expected sin(out)=%v, got %v", sinIn/1.5, sinOut)
	}
	require.Less(t, scattered.Direction.Z, 0.0)
}
