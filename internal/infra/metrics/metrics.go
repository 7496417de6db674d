package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "presentation"

// Metrics holds the collectors for deck generation. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration prometheus.Histogram
	slides   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Presentation requests by outcome code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating a deck.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		slides: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slides_total",
			Help:      "Slides rendered, by style.",
		}, []string{"style"}),
	}
	reg.MustRegister(m.requests, m.duration, m.slides)
	return m
}

// ObserveRequest records one finished request. code is "OK" on success or
// an AppError code.
func (m *Metrics) ObserveRequest(code string, elapsed time.Duration) {
	m.requests.WithLabelValues(code).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Requests returns the request counter for code.
func (m *Metrics) Requests(code string) prometheus.Counter {
	return m.requests.WithLabelValues(code)
}

func (m *Metrics) AddSlides(style string, n int) {
	m.slides.WithLabelValues(style).Add(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
