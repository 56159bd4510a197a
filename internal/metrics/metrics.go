// Package metrics exposes Prometheus collectors for the summary server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes used as the status label.
const (
	StatusComplete     = "complete"
	StatusFailedEarly  = "failed_before_output"
	StatusFailedStream = "failed_mid_stream"
	StatusAborted      = "client_gone"
)

// Metrics groups the server collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	generations     *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	chunks          prometheus.Histogram
	bytes           prometheus.Counter
	rateLimited     prometheus.Counter
	activeStreams   prometheus.Gauge
	firstChunkDelay prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ikigai_generations_total",
			Help: "Summary generations, partitioned by provider, transport and outcome.",
		}, []string{"provider", "transport", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ikigai_generation_duration_seconds",
			Help:    "Time from request to end of the summary stream.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider"}),
		chunks: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ikigai_generation_chunks",
			Help:    "Number of text chunks forwarded per generation.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		bytes: f.NewCounter(prometheus.CounterOpts{
			Name: "ikigai_generation_bytes_total",
			Help: "Bytes of summary text forwarded to clients.",
		}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "ikigai_rate_limited_total",
			Help: "Generation requests rejected by the rate limiter.",
		}),
		activeStreams: f.NewGauge(prometheus.GaugeOpts{
			Name: "ikigai_active_streams",
			Help: "Summary streams currently in flight.",
		}),
		firstChunkDelay: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ikigai_first_chunk_seconds",
			Help:    "Time until the provider produced its first chunk.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// StreamStarted marks a stream in flight and returns a func recording its end.
func (m *Metrics) StreamStarted(provider, transport string) func(status string, chunks, bytes int) {
	start := time.Now()
	m.activeStreams.Inc()
	return func(status string, chunks, bytes int) {
		m.activeStreams.Dec()
		m.generations.WithLabelValues(provider, transport, status).Inc()
		m.duration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
		m.chunks.Observe(float64(chunks))
		m.bytes.Add(float64(bytes))
	}
}

// FirstChunk records the delay before the first chunk arrived.
func (m *Metrics) FirstChunk(d time.Duration) {
	m.firstChunkDelay.Observe(d.Seconds())
}

// RateLimited counts a rejected request.
func (m *Metrics) RateLimited() {
	m.rateLimited.Inc()
}
