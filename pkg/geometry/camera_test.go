package geometry

import (
	"math"
	"testing"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestCameraGetCameraForward(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0,
		VFov:        45.0,
	}
	camera := NewCamera(config)

	forward := camera.GetCameraForward()
	expected := core.NewVec3(0, 0, -1)

	if math.Abs(forward.X-expected.X) > 1e-6 ||
		math.Abs(forward.Y-expected.Y) > 1e-6 ||
		math.Abs(forward.Z-expected.Z) > 1e-6 {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCameraGetRay_CenterAndCorners(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(0, 1, 5),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       160,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}
	camera := NewCamera(config)
	sampler := core.NewSeededSampler(42)

	// The center of the image looks straight at LookAt
	center := camera.GetRay(0.5, 0.5, sampler)
	require.Equal(t, config.Center, center.Origin)
	if center.Direction.Unit().Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected center ray along -Z, got %v", center.Direction)
	}

	// t grows upward and s grows to the right
	topRight := camera.GetRay(1, 1, sampler)
	require.Greater(t, topRight.Direction.X, 0.0)
	require.Greater(t, topRight.Direction.Y, 0.0)

	bottomLeft := camera.GetRay(0, 0, sampler)
	require.Less(t, bottomLeft.Direction.X, 0.0)
	require.Less(t, bottomLeft.Direction.Y, 0.0)

	// 90 degree vertical field of view: top edge is 45 degrees above the axis
	top := camera.GetRay(0.5, 1, sampler).Direction.Unit()
	require.InDelta(t, math.Sqrt(0.5), top.Y, 1e-9)
}

func TestCameraGetRay_ThinLens(t *testing.T) {
	config := CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         100,
		AspectRatio:   1.0,
		VFov:          40.0,
		Aperture:      0.5,
		FocusDistance: 4.0,
	}
	camera := NewCamera(config)
	sampler := core.NewSeededSampler(1)

	focusPoint := core.NewVec3(0, 0, -4)
	for i := 0; i < 100; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)

		// Origins stay on the lens disk
		require.LessOrEqual(t, ray.Origin.Length(), 0.25)
		require.Equal(t, 0.0, ray.Origin.Z)

		// Every ray through the image center converges on the focus plane
		if ray.At(1).Subtract(focusPoint).Length() > 1e-9 {
			t.Fatalf("Expected ray through %v, got %v", focusPoint, ray.At(1))
		}
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := CameraConfig{
		Center:      core.NewVec3(0, 1, 5),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        50,
	}

	merged := MergeCameraConfig(base, CameraConfig{Width: 800, VFov: 30})

	require.Equal(t, 800, merged.Width)
	require.Equal(t, 30.0, merged.VFov)
	require.Equal(t, base.Center, merged.Center)
	require.Equal(t, base.AspectRatio, merged.AspectRatio)
	require.Equal(t, base, MergeCameraConfig(base, CameraConfig{}))
}
