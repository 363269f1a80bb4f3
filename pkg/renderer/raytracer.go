package renderer

import (
	"image"
	"image/color"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/integrator"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/scene"
)

// Raytracer renders a scene with a light transport integrator
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
	config     scene.SamplingConfig
}

// NewRaytracer creates a raytracer using the resolution and sampling settings of the scene
func NewRaytracer(s *scene.Scene, integratorInst integrator.Integrator) *Raytracer {
	return &Raytracer{
		scene:      s,
		integrator: integratorInst,
		width:      s.SamplingConfig.Width,
		height:     s.SamplingConfig.Height,
		config:     s.SamplingConfig,
	}
}

// MergeSamplingConfig overrides the non-zero fields of the sampling configuration
func (rt *Raytracer) MergeSamplingConfig(updates scene.SamplingConfig) {
	if updates.SamplesPerPixel > 0 {
		rt.config.SamplesPerPixel = updates.SamplesPerPixel
	}
	if updates.MaxDepth > 0 {
		rt.config.MaxDepth = updates.MaxDepth
	}
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() scene.SamplingConfig {
	return rt.config
}

// Sample traces one jittered camera ray through pixel column i of row j.
// Rows are counted from the bottom of the image.
func (rt *Raytracer) Sample(i, j int, sampler core.Sampler) core.Color {
	s := (float64(i) + sampler.Get1D() - 0.5) / float64(rt.width)
	t := (float64(j) + sampler.Get1D() - 0.5) / float64(rt.height)

	ray := rt.scene.Camera.GetRay(s, t, sampler)
	return rt.integrator.RayColor(ray, rt.scene, rt.config.MaxDepth, sampler)
}

// RenderBounds samples every pixel in bounds until it holds targetSamples
// samples. Bounds are in image coordinates with y growing downward.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := rt.height - 1 - y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			initialSampleCount := ps.SampleCount

			for ps.SampleCount < targetSamples {
				ps.AddSample(rt.Sample(x, row, sampler))
			}

			stats.update(ps.SampleCount - initialSampleCount)
		}
	}

	stats.finalize()
	return stats
}

// Render renders the whole image on the calling goroutine, scanning rows
// from the top of the image down.
func (rt *Raytracer) Render(sampler core.Sampler) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))

	for j := rt.height - 1; j >= 0; j-- {
		for i := 0; i < rt.width; i++ {
			var ps PixelStats
			for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
				ps.AddSample(rt.Sample(i, j, sampler))
			}
			img.SetRGBA(i, rt.height-1-j, ColorToRGBA(ps.GetColor()))
		}
	}

	return img
}

// ColorToRGBA applies gamma 2 correction, clamps to [0, 1] and scales to 8 bits
func ColorToRGBA(c core.Color) color.RGBA {
	c = c.GammaCorrect(2.0).Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}
