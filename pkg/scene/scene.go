package scene

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bvhBuilds = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "raytracer",
	Name:      "bvh_builds_total",
	Help:      "The number of bounding volume hierarchy rebuilds.",
})

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig

	shapes  []geometry.Shape
	root    *geometry.BVHNode
	sampler core.Sampler
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int `json:"width"`           // Image width
	Height          int `json:"height"`          // Image height
	SamplesPerPixel int `json:"samplesPerPixel"` // Number of rays per pixel
	MaxDepth        int `json:"maxDepth"`        // Maximum ray bounce depth
}

// New creates a scene holding a single shape. The sampler drives the random
// split axis of every BVH build the scene performs.
func New(initial geometry.Shape, sampler core.Sampler) *Scene {
	s := &Scene{
		shapes:  []geometry.Shape{initial},
		sampler: sampler,
	}
	s.rebuild()
	return s
}

// Push adds a shape and rebuilds the whole BVH
func (s *Scene) Push(shape geometry.Shape) {
	s.shapes = append(s.shapes, shape)
	s.rebuild()
}

// Extend adds several shapes and rebuilds the BVH once
func (s *Scene) Extend(shapes ...geometry.Shape) {
	if len(shapes) == 0 {
		return
	}
	s.shapes = append(s.shapes, shapes...)
	s.rebuild()
}

func (s *Scene) rebuild() {
	s.root = geometry.NewBVH(s.shapes, s.sampler)
	bvhBuilds.Inc()

	stats := s.root.Stats()
	logs.WithTag("primitives", len(s.shapes)).
		WithTag("nodes", stats.TotalNodes).
		WithTag("depth", stats.MaxDepth).
		Debug("bvh rebuilt")
}

// NearestHit returns the closest intersection with t in [tMin, tMax]
func (s *Scene) NearestHit(ray core.Ray, tMin, tMax float64) (*geometry.HitRecord, bool) {
	return s.root.Hit(ray, tMin, tMax)
}

// LinearHit scans every shape without the BVH and returns the closest intersection
func (s *Scene) LinearHit(ray core.Ray, tMin, tMax float64) (*geometry.HitRecord, bool) {
	var closest *geometry.HitRecord
	closestSoFar := tMax

	for _, shape := range s.shapes {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}

// Shapes returns the scene primitives in insertion order
func (s *Scene) Shapes() []geometry.Shape {
	return s.shapes
}

// Root returns the current BVH root
func (s *Scene) Root() *geometry.BVHNode {
	return s.root
}

// Len returns the number of primitives in the scene
func (s *Scene) Len() int {
	return len(s.shapes)
}

// SetCamera builds the camera from config and derives the image height from its aspect ratio
func (s *Scene) SetCamera(config geometry.CameraConfig) {
	s.CameraConfig = config
	s.Camera = geometry.NewCamera(config)
	s.SamplingConfig.Width = config.Width
	s.SamplingConfig.Height = int(float64(config.Width) / config.AspectRatio)
}

// Resize changes the output resolution while keeping the camera framing
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	config := s.CameraConfig
	config.Width = width
	config.AspectRatio = float64(width) / float64(height)
	s.SetCamera(config)
	s.SamplingConfig.Height = height
}
