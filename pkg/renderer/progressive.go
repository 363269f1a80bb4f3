package renderer

import (
	"context"
	"image"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/integrator"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/scene"
)

// ErrTypeWorkerPoolClosed is reported when the worker pool stops before a pass completes
const ErrTypeWorkerPoolClosed = "worker_pool_closed"

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int    // Size of each tile (64x64 recommended)
	InitialSamples     int    // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int    // Maximum total samples per pixel
	MaxPasses          int    // Maximum number of passes
	NumWorkers         int    // Number of parallel workers (0 = use CPU count)
	Seed               int64  // Seed of the per-tile samplers
	SceneName          string // Label used in logs and metrics
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7, // 1, 9, 17, 25, 33, 41, 50
		NumWorkers:         0, // Auto-detect CPU count
		Seed:               42,
	}
}

func (c ProgressiveConfig) normalized() ProgressiveConfig {
	defaults := DefaultProgressiveConfig()
	if c.TileSize <= 0 {
		c.TileSize = defaults.TileSize
	}
	if c.MaxSamplesPerPixel <= 0 {
		c.MaxSamplesPerPixel = defaults.MaxSamplesPerPixel
	}
	if c.InitialSamples <= 0 {
		c.InitialSamples = defaults.InitialSamples
	}
	c.InitialSamples = min(c.InitialSamples, c.MaxSamplesPerPixel)
	if c.MaxPasses <= 0 {
		c.MaxPasses = 1
	}
	return c
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	raytracer     *Raytracer     // Base raytracer for actual rendering
	workerPool    *WorkerPool    // Worker pool for parallel processing
}

// NewProgressiveRaytracer creates a new progressive raytracer for the scene resolution
func NewProgressiveRaytracer(s *scene.Scene, config ProgressiveConfig, integratorInst integrator.Integrator) *ProgressiveRaytracer {
	config = config.normalized()

	raytracer := NewRaytracer(s, integratorInst)
	width := s.SamplingConfig.Width
	height := s.SamplingConfig.Height
	tiles := NewTileGrid(width, height, config.TileSize, config.Seed)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &ProgressiveRaytracer{
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		pixelStats: pixelStats,
		raytracer:  raytracer,
		workerPool: NewWorkerPool(raytracer, len(tiles), config.NumWorkers),
	}
}

// Config returns the effective configuration
func (pr *ProgressiveRaytracer) Config() ProgressiveConfig {
	return pr.config
}

// Tiles returns the tile grid
func (pr *ProgressiveRaytracer) Tiles() []*Tile {
	return pr.tiles
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return pr.config.InitialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass using parallel processing.
// The callback, if any, runs on the calling goroutine once per finished tile.
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	logs.WithTag("scene", pr.config.SceneName).
		WithTag("pass", passNumber).
		WithTag("target_samples", targetSamples).
		WithTag("workers", pr.workerPool.GetNumWorkers()).
		Debug("pass started")

	pr.workerPool.Start(ctx)

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
	}

	// Every submitted tile must be collected before the next pass, even after a failure
	var passErr error
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, errors.New("worker pool closed unexpectedly").
				WithType(ErrTypeWorkerPoolClosed).
				WithTag("pass", passNumber)
		}
		if result.Error != nil {
			if passErr == nil {
				passErr = result.Error
			}
			continue
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   TileImage(tile.Bounds, pr.pixelStats),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}
	if passErr != nil {
		return nil, RenderStats{}, passErr
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// Close stops the worker pool. The raytracer cannot render after Close.
func (pr *ProgressiveRaytracer) Close() {
	pr.workerPool.Stop()
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	Duration   time.Duration
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders every pass on a background goroutine and reports
// through the returned channels, which are closed when rendering ends. If
// options.TileUpdates is false the tile channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.Close()

		rendersInProgress.Inc()
		defer rendersInProgress.Dec()

		logs.WithTag("scene", pr.config.SceneName).
			WithTag("passes", pr.config.MaxPasses).
			WithTag("width", pr.width).
			WithTag("height", pr.height).
			WithTag("tiles", len(pr.tiles)).
			Info("progressive rendering started")

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			if err := ctx.Err(); err != nil {
				errChan <- errors.New("rendering cancelled").
					WithTag("pass", pass).
					Wrap(err)
				return
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Drop the update when nobody keeps up with the tile stream
					}
				}
			}

			start := time.Now()
			img, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- errors.New("rendering pass failed").
					WithTag("pass", pass).
					Wrap(err)
				return
			}
			instrumentPassDuration(pr.config.SceneName, start)

			duration := time.Since(start)
			logs.WithTag("scene", pr.config.SceneName).
				WithTag("pass", pass).
				WithTag("duration", duration.String()).
				WithTag("average_samples", stats.AverageSamples).
				Info("pass completed")

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				Duration:   duration,
				IsLast:     isLast,
			}:
			case <-ctx.Done():
				return
			}

			if isLast {
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage creates an image from the current state of the shared
// pixel stats and calculates render statistics in the same sweep.
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	stats := newRenderStats(pr.width*pr.height, targetSamples)
	stats.MinSamples = pr.config.MaxSamplesPerPixel

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, ColorToRGBA(pixel.GetColor()))
			stats.update(pixel.SampleCount)
		}
	}

	stats.finalize()
	return img, stats
}
