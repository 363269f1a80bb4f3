package renderer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace  = "raytracer"
	sceneLabel = "scene"
)

var (
	samplesTaken = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "samples_total",
		Help:      "The number of camera rays traced.",
	})

	tilesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tiles_total",
		Help:      "The number of tiles rendered across all passes.",
	})

	passDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pass_duration_seconds",
		Help:      "The time to render one progressive pass.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
	}, []string{
		sceneLabel,
	})

	rendersInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "renders_in_progress",
		Help:      "The number of progressive renders currently running.",
	})
)

func instrumentTile(stats RenderStats) {
	tilesRendered.Inc()
	samplesTaken.Add(float64(stats.TotalSamples))
}

func instrumentPassDuration(sceneName string, start time.Time) {
	passDuration.With(prometheus.Labels{
		sceneLabel: sceneName,
	}).Observe(time.Since(start).Seconds())
}
