package metrics

import (
	"net/http"
	"time"

	"github.com/foxseedlab/speakeasy/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusRecorder struct {
	registry *prometheus.Registry
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	r := &PrometheusRecorder{
		registry: registry,
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speakeasy",
			Name:      "transcriptions_total",
			Help:      "Transcription requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "speakeasy",
			Name:      "transcription_duration_seconds",
			Help:      "End-to-end transcription latency by outcome.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"outcome"}),
	}
	registry.MustRegister(
		r.total,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *PrometheusRecorder) ObserveTranscription(outcome string, elapsed time.Duration) {
	r.total.WithLabelValues(outcome).Inc()
	r.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var _ metrics.Recorder = (*PrometheusRecorder)(nil)
