package server

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel = "error_type"
	eventLabel   = "event"
)

var (
	wsConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "raytracer",
		Name:      "ws_connected_clients",
		Help:      "The number of clients streaming a render.",
	})

	wsSentEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raytracer",
		Name:      "ws_sent_events",
		Help:      "The number of render events sent to WebSocket connections.",
	}, []string{
		eventLabel,
	})

	wsSentBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raytracer",
		Name:      "ws_sent_bytes",
		Help:      "The number of bytes sent to WebSocket connections.",
	}, []string{
		eventLabel,
	})

	wsRenderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raytracer",
		Name:      "ws_render_errors",
		Help:      "The errors that ended a streamed render.",
	}, []string{
		errTypeLabel,
	})
)

func instrumentSentEvent(event string, size int) {
	wsSentEvents.WithLabelValues(event).Inc()
	wsSentBytes.WithLabelValues(event).Add(float64(size))
}

func instrumentRenderError(err error) {
	errType := errors.Type(err)
	if errType == "" {
		errType = "unknown"
	}
	wsRenderErrors.WithLabelValues(errType).Inc()
}
