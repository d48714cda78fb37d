// ABOUTME: Prometheus metrics for the transcoding server
// ABOUTME: Frame, byte, error and session counters served on /metrics
package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "opuscp"

// Metrics holds the server's collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	frames    *prometheus.CounterVec
	bytesIn   *prometheus.CounterVec
	bytesOut  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	sessions  prometheus.Gauge
	durations *prometheus.HistogramVec
}

// NewMetrics creates and registers the server collectors
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "frames_total",
			Help:      "Frames transcoded by operation",
		}, []string{"op"}),
		bytesIn: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "input_bytes_total",
			Help:      "Bytes received for transcoding by operation",
		}, []string{"op"}),
		bytesOut: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "output_bytes_total",
			Help:      "Bytes produced by transcoding by operation",
		}, []string{"op"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Failed requests by error kind",
		}, []string{"kind"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Codec sessions currently held by connections",
		}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent transcoding one frame",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"op"}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) frameDone(op string, in, out int, elapsed time.Duration) {
	m.frames.WithLabelValues(op).Inc()
	m.bytesIn.WithLabelValues(op).Add(float64(in))
	m.bytesOut.WithLabelValues(op).Add(float64(out))
	m.durations.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) failed(kind string) {
	m.errors.WithLabelValues(kind).Inc()
}
