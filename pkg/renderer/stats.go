package renderer

import (
	"image"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     `json:"totalPixels"`    // Total number of pixels rendered
	TotalSamples   int     `json:"totalSamples"`   // Total number of samples taken
	AverageSamples float64 `json:"averageSamples"` // Average samples per pixel
	MaxSamples     int     `json:"maxSamples"`     // Target samples per pixel
	MinSamples     int     `json:"minSamples"`     // Minimum samples taken per pixel
	MaxSamplesUsed int     `json:"maxSamplesUsed"` // Maximum samples actually used by any pixel
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Color // RGB accumulator for final result
	SampleCount int        // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Color) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Color{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

func newRenderStats(pixels, targetSamples int) RenderStats {
	return RenderStats{
		TotalPixels: pixels,
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Start with max, will be reduced
	}
}

func (stats *RenderStats) update(samplesUsed int) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
}

func (stats *RenderStats) finalize() {
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image,
// with channels mapped to [0, 1].
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/0xffff + 0.7152*float64(g)/0xffff + 0.0722*float64(b)/0xffff
		}
	}
	return total / float64(pixels)
}
