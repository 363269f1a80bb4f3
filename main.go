package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	rthttp "github.com/nsdigirolamo/nicks-ray-tracer/pkg/http"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/integrator"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/renderer"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var (
	// The raytracer version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "raytracer_info",
		Help:        "Raytracer information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

var _ = reflect.TypeOf(config{})

type config struct {
	Scene      string `cli:""        env:"RAYTRACER_SCENE"       help:"Built-in scene name or path to a .json scene file."`
	Width      int    `cli:""        env:"RAYTRACER_WIDTH"       help:"Image width in pixels (0 keeps the scene default)."`
	Height     int    `cli:""        env:"RAYTRACER_HEIGHT"      help:"Image height in pixels (0 derives it from the aspect ratio)."`
	Samples    int    `cli:""        env:"RAYTRACER_SAMPLES"     help:"Samples per pixel (0 keeps the scene default)."`
	MaxDepth   int    `cli:""        env:"RAYTRACER_MAX_DEPTH"   help:"Maximum ray bounce depth (0 keeps the scene default)."`
	Passes     int    `cli:""        env:"RAYTRACER_PASSES"      help:"Number of progressive passes."`
	Workers    int    `cli:""        env:"RAYTRACER_WORKERS"     help:"Number of render workers (0 uses every CPU)."`
	TileSize   int    `cli:",hidden" env:"RAYTRACER_TILE_SIZE"   help:"Tile edge length in pixels."`
	Seed       int    `cli:""        env:"RAYTRACER_SEED"        help:"Seed for scene construction and sampling."`
	Output     string `cli:""        env:"RAYTRACER_OUTPUT"      help:"Output image path (.png or .ppm). Defaults to output/<scene>/render_<timestamp>.png."`
	SavePasses bool   `cli:""        env:"RAYTRACER_SAVE_PASSES" help:"Save the image after every pass, not only the last one."`
	AdminAddr  string `cli:""        env:"RAYTRACER_ADMIN_ADDR"  help:"Admin listening address serving /metrics and /health while rendering. Empty disables it."`
	LogLevel   string `cli:""        env:"RAYTRACER_LOG_LEVEL"   help:"Log level (debug|info|warning|error)."`
	LogIndent  bool   `cli:""        env:"RAYTRACER_LOG_INDENT"  help:"Indent logs."`
	ListScenes bool   `cli:""        env:"-"                     help:"List the available scenes and exit."`
	Version    bool   `cli:""        env:"-"                     help:"Show version."`
	Help       bool   `cli:""        env:"-"                     help:"Show help."`
}

func defaultConfig() config {
	return config{
		Scene:    "default",
		Passes:   7,
		TileSize: 64,
		Seed:     42,
		LogLevel: logs.InfoLevel.String(),
	}
}

func main() {
	conf := defaultConfig()

	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Renders a sphere scene with a progressive path tracer.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if conf.ListScenes {
		listScenes()
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	adminCtx, stopAdmin := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if conf.AdminAddr != "" {
		var admin http.ServeMux
		admin.Handle("/metrics", promhttp.Handler())
		admin.HandleFunc("/health", rthttp.HandleHealthCheck)
		admin.HandleFunc("/version", rthttp.HandleVersion(version))

		wg.Add(1)
		go func() {
			defer wg.Done()
			rthttp.ListenAndServe(adminCtx, &http.Server{Addr: conf.AdminAddr, Handler: &admin})
		}()
	}

	err := run(ctx, conf, time.Now())
	stopAdmin()
	wg.Wait()

	if err != nil {
		logs.Fatal(err)
	}
}

// run renders the configured scene and writes the resulting image
func run(ctx context.Context, conf config, now time.Time) error {
	renderID := uuid.NewString()

	s, err := buildScene(conf)
	if err != nil {
		return err
	}

	stats := s.Root().Stats()
	logs.WithTag("render_id", renderID).
		WithTag("version", version).
		WithTag("scene", conf.Scene).
		WithTag("width", s.SamplingConfig.Width).
		WithTag("height", s.SamplingConfig.Height).
		WithTag("samples", s.SamplingConfig.SamplesPerPixel).
		WithTag("max_depth", s.SamplingConfig.MaxDepth).
		WithTag("primitives", stats.TotalShapes).
		WithTag("bvh_depth", stats.MaxDepth).
		Info("starting render")

	progressiveConfig := renderer.ProgressiveConfig{
		TileSize:           conf.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: s.SamplingConfig.SamplesPerPixel,
		MaxPasses:          conf.Passes,
		NumWorkers:         conf.Workers,
		Seed:               int64(conf.Seed),
		SceneName:          conf.Scene,
	}
	pr := renderer.NewProgressiveRaytracer(s, progressiveConfig, integrator.NewPathTracingIntegrator())

	path := outputPath(conf, now)
	start := time.Now()

	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var last *renderer.PassResult
	for pass := range passChan {
		last = &pass

		if conf.SavePasses && !pass.IsLast {
			passPath := passOutputPath(path, pass.PassNumber)
			if err := renderer.SaveImage(passPath, pass.Image); err != nil {
				return err
			}
			logs.WithTag("render_id", renderID).
				WithTag("pass", pass.PassNumber).
				WithTag("path", passPath).
				Debug("pass image saved")
		}
	}

	renderErr := <-errChan
	if last == nil {
		if renderErr != nil {
			return errors.New("render produced no image").
				WithTag("render_id", renderID).
				Wrap(renderErr)
		}
		return errors.New("render produced no image").WithTag("render_id", renderID)
	}
	if renderErr != nil {
		logs.Warn(errors.New("render stopped early, saving the last completed pass").
			WithTag("render_id", renderID).
			WithTag("pass", last.PassNumber).
			Wrap(renderErr))
	}

	if err := renderer.SaveImage(path, last.Image); err != nil {
		return err
	}

	logs.WithTag("render_id", renderID).
		WithTag("path", path).
		WithTag("passes", last.PassNumber).
		WithTag("average_samples", last.Stats.AverageSamples).
		WithTag("average_luminance", renderer.CalculateAverageLuminance(last.Image)).
		WithTag("duration", time.Since(start).String()).
		Info("render saved")

	return nil
}

// buildScene creates the configured scene and applies the resolution and sampling overrides
func buildScene(conf config) (*scene.Scene, error) {
	var overrides []geometry.CameraConfig
	if conf.Width > 0 {
		overrides = append(overrides, geometry.CameraConfig{Width: conf.Width})
	}

	s, err := scene.Create(conf.Scene, int64(conf.Seed), overrides...)
	if err != nil {
		return nil, errors.New("creating scene failed").
			WithType(errors.Type(err)).
			WithTag("scene", conf.Scene).
			Wrap(err)
	}

	if conf.Height > 0 {
		s.Resize(s.SamplingConfig.Width, conf.Height)
	}
	if conf.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = conf.Samples
	}
	if conf.MaxDepth > 0 {
		s.SamplingConfig.MaxDepth = conf.MaxDepth
	}

	return s, nil
}

// outputPath returns the configured output path or a timestamped one under output/<scene>
func outputPath(conf config, now time.Time) string {
	if conf.Output != "" {
		return conf.Output
	}

	name := strings.TrimSuffix(filepath.Base(strings.TrimPrefix(conf.Scene, "file:")), ".json")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func passOutputPath(path string, pass int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_pass%02d%s", strings.TrimSuffix(path, ext), pass, ext)
}

func listScenes() {
	response, err := scene.ListAllScenes()
	if err != nil {
		logs.Fatal(err)
	}

	for _, group := range response.Groups {
		fmt.Println(group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("  %-40s %s\n", info.ID, info.Description)
		}
	}
}

func validateConfig(conf config) error {
	if conf.Scene == "" {
		return errors.New("scene is empty")
	}

	if conf.Width < 0 || conf.Height < 0 {
		return errors.New("image dimensions must not be negative").
			WithTag("width", conf.Width).
			WithTag("height", conf.Height)
	}

	if conf.Samples < 0 || conf.MaxDepth < 0 {
		return errors.New("samples and max depth must not be negative").
			WithTag("samples", conf.Samples).
			WithTag("max_depth", conf.MaxDepth)
	}

	if conf.Passes <= 0 {
		return errors.New("passes must be positive").WithTag("passes", conf.Passes)
	}

	if conf.TileSize <= 0 {
		return errors.New("tile size must be positive").WithTag("tile_size", conf.TileSize)
	}

	if conf.Output != "" {
		switch strings.ToLower(filepath.Ext(conf.Output)) {
		case ".png", ".ppm":
		default:
			return errors.New("output must end in .png or .ppm").WithTag("output", conf.Output)
		}
	}

	return nil
}
