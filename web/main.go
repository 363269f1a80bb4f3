package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	rthttp "github.com/nsdigirolamo/nicks-ray-tracer/pkg/http"
	"github.com/nsdigirolamo/nicks-ray-tracer/web/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var (
	// The web server version number. Set at build.
	version = "v0.1.0"
)

var _ = reflect.TypeOf(config{})

type config struct {
	Addr      string   `cli:""        env:"RAYTRACER_WEB_ADDR"       help:"Listening address for the web client and API."`
	AdminAddr string   `cli:""        env:"RAYTRACER_WEB_ADMIN_ADDR" help:"Admin listening address serving /metrics and /health. Empty disables it."`
	StaticDir string   `cli:""        env:"RAYTRACER_WEB_STATIC_DIR" help:"Directory of the browser client. Empty disables it."`
	ScenesDir []string `cli:",hidden" env:"RAYTRACER_WEB_SCENES_DIR" help:"Comma separated directories scanned for scene files."`
	Workers   int      `cli:""        env:"RAYTRACER_WEB_WORKERS"    help:"Number of render workers per stream (0 uses every CPU)."`
	LogLevel  string   `cli:""        env:"RAYTRACER_WEB_LOG_LEVEL"  help:"Log level (debug|info|warning|error)."`
	LogIndent bool     `cli:""        env:"RAYTRACER_WEB_LOG_INDENT" help:"Indent logs."`
	Version   bool     `cli:""        env:"-"                        help:"Show version."`
	Help      bool     `cli:""        env:"-"                        help:"Show help."`
}

func main() {
	conf := config{
		Addr:      ":8080",
		AdminAddr: ":18190",
		StaticDir: "web/static",
		ScenesDir: []string{"scenes", "../scenes"},
		LogLevel:  logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Serves the progressive raytracer to a browser.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if conf.Addr == "" {
		logs.Fatal(errors.New("listening address is empty"))
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	web := server.Server{
		StaticDir:  conf.StaticDir,
		ScenesDirs: conf.ScenesDir,
		Version:    version,
		Workers:    conf.Workers,
	}

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", rthttp.HandleHealthCheck)
	admin.HandleFunc("/version", rthttp.HandleVersion(version))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("static_dir", conf.StaticDir).
		WithTag("scenes_dir", conf.ScenesDir).
		Info("starting raytracer web server")

	servers := []*http.Server{
		{Addr: conf.Addr, Handler: metrics.HTTPHandler(web.Handler(), rthttp.MetricsPathFormatter)},
	}
	if conf.AdminAddr != "" {
		servers = append(servers, &http.Server{Addr: conf.AdminAddr, Handler: &admin})
	}
	rthttp.ListenAndServe(ctx, servers...)
}
