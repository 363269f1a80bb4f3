package renderer

import (
	"context"
	"image"
	"testing"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/integrator"
	"github.com/stretchr/testify/require"
)

func TestProgressiveSampleCalculation(t *testing.T) {
	pr := &ProgressiveRaytracer{
		config: ProgressiveConfig{InitialSamples: 1, MaxSamplesPerPixel: 50, MaxPasses: 7},
	}

	// (50-1)/6 rounds down to 8 samples per pass, the final pass takes the rest
	expectedTotalSamples := []int{1, 9, 17, 25, 33, 41, 50}
	for pass := 1; pass <= 7; pass++ {
		require.Equal(t, expectedTotalSamples[pass-1], pr.getSamplesForPass(pass), "pass %d", pass)
	}

	pr.config.MaxPasses = 1
	require.Equal(t, 50, pr.getSamplesForPass(1), "A single pass takes every sample")
}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()
	require.Equal(t, 64, config.TileSize)
	require.Equal(t, 1, config.InitialSamples)
	require.Equal(t, 50, config.MaxSamplesPerPixel)
	require.Equal(t, 7, config.MaxPasses)

	normalized := ProgressiveConfig{InitialSamples: 10, MaxSamplesPerPixel: 4}.normalized()
	require.Equal(t, 64, normalized.TileSize)
	require.Equal(t, 4, normalized.InitialSamples)
	require.Equal(t, 1, normalized.MaxPasses)
}

func renderAll(t *testing.T, pr *ProgressiveRaytracer, options RenderOptions) ([]PassResult, []TileCompletionResult, error) {
	t.Helper()
	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), options)

	var tiles []TileCompletionResult
	done := make(chan struct{})
	go func() {
		defer close(done)
		for tile := range tileChan {
			tiles = append(tiles, tile)
		}
	}()

	var passes []PassResult
	for pass := range passChan {
		passes = append(passes, pass)
	}
	<-done
	return passes, tiles, <-errChan
}

func TestRenderProgressive(t *testing.T) {
	s := createTestScene(40, 24)
	mock := &MockIntegrator{returnColor: core.NewColor(0.25, 0.25, 0.25)}
	config := ProgressiveConfig{
		TileSize:           16,
		InitialSamples:     1,
		MaxSamplesPerPixel: 6,
		MaxPasses:          3,
		NumWorkers:         2,
		SceneName:          "two-spheres",
	}
	pr := NewProgressiveRaytracer(s, config, mock)

	passes, tiles, err := renderAll(t, pr, RenderOptions{TileUpdates: true})
	require.NoError(t, err)
	require.Len(t, passes, 3)

	for i, pass := range passes {
		require.Equal(t, i+1, pass.PassNumber)
		require.Equal(t, image.Rect(0, 0, 40, 24), pass.Image.Bounds())
		require.Equal(t, i == 2, pass.IsLast)
	}
	require.Equal(t, []int{1, 3, 6}, []int{
		passes[0].Stats.MinSamples,
		passes[1].Stats.MinSamples,
		passes[2].Stats.MinSamples,
	})
	require.Equal(t, 6.0, passes[2].Stats.AverageSamples)
	require.Equal(t, int64(40*24*6), mock.callCount.Load())

	// 3x2 tiles per pass
	require.Len(t, tiles, 18)
	for _, tile := range pr.Tiles() {
		require.Equal(t, 3, tile.PassesCompleted)
	}
}

func TestRenderProgressive_NoTileUpdates(t *testing.T) {
	s := createTestScene(16, 16)
	pr := NewProgressiveRaytracer(s, ProgressiveConfig{MaxSamplesPerPixel: 2, MaxPasses: 2}, &MockIntegrator{})

	passes, tiles, err := renderAll(t, pr, RenderOptions{})
	require.NoError(t, err)
	require.Len(t, passes, 2)
	require.Empty(t, tiles)
}

func TestRenderProgressive_Cancelled(t *testing.T) {
	s := createTestScene(16, 16)
	mock := &MockIntegrator{}
	pr := NewProgressiveRaytracer(s, ProgressiveConfig{MaxSamplesPerPixel: 2, MaxPasses: 2}, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, _, errChan := pr.RenderProgressive(ctx, RenderOptions{})
	for range passChan {
		t.Fatal("No pass completes after cancellation")
	}
	require.ErrorIs(t, <-errChan, context.Canceled)
	require.Zero(t, mock.callCount.Load())
}

func TestRenderProgressive_IndependentOfWorkerCount(t *testing.T) {
	render := func(workers int) []uint8 {
		s := createTestScene(48, 32)
		config := ProgressiveConfig{
			TileSize:           16,
			MaxSamplesPerPixel: 3,
			MaxPasses:          2,
			NumWorkers:         workers,
			Seed:               9,
		}
		pr := NewProgressiveRaytracer(s, config, integrator.NewPathTracingIntegrator())

		passes, _, err := renderAll(t, pr, RenderOptions{})
		require.NoError(t, err)
		require.NotEmpty(t, passes)
		return passes[len(passes)-1].Image.Pix
	}

	require.Equal(t, render(1), render(4))
}
