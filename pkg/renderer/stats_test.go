package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	require.Equal(t, core.Color{}, ps.GetColor(), "Empty pixel is black")

	ps.AddSample(core.NewColor(1, 0, 0.5))
	ps.AddSample(core.NewColor(0, 1, 0.5))

	require.Equal(t, 2, ps.SampleCount)
	require.Equal(t, core.NewColor(0.5, 0.5, 0.5), ps.GetColor())
}

func TestRenderStatsAccumulation(t *testing.T) {
	stats := newRenderStats(3, 8)
	stats.update(8)
	stats.update(4)
	stats.update(6)
	stats.finalize()

	require.Equal(t, 18, stats.TotalSamples)
	require.Equal(t, 4, stats.MinSamples)
	require.Equal(t, 8, stats.MaxSamplesUsed)
	require.Equal(t, 6.0, stats.AverageSamples)
}

func TestCalculateAverageLuminance(t *testing.T) {
	// Red, green, blue and black: (0.2126 + 0.7152 + 0.0722 + 0) / 4
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	require.InDelta(t, 0.25, CalculateAverageLuminance(img), 1e-4)
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	require.InDelta(t, 1.0, CalculateAverageLuminance(img), 1e-4)
}

func TestCalculateAverageLuminance_Empty(t *testing.T) {
	require.Zero(t, CalculateAverageLuminance(image.NewRGBA(image.Rect(0, 0, 0, 0))))
}
