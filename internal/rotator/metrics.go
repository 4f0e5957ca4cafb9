package rotator

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "banners"
	metricsSubsystem = "rotator"
)

// Metrics holds the rotator's Prometheus collectors. Each instance owns its
// registry so servers in tests do not collide.
type Metrics struct {
	registry *prometheus.Registry

	shows        *prometheus.CounterVec
	responseTime *prometheus.HistogramVec
	banners      *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		shows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "banner_requests_total",
			Help:      "banner requests by outcome",
		}, []string{"result"}),
		responseTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "response_time_seconds",
			Help:      "time spent answering requests",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"endpoint"}),
		banners: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "banners",
			Help:      "loaded banners by state",
		}, []string{"state"}),
	}

	m.registry.MustRegister(m.shows, m.responseTime, m.banners)
	return m
}

func (m *Metrics) served() {
	m.shows.WithLabelValues("served").Inc()
}

func (m *Metrics) missed() {
	m.shows.WithLabelValues("miss").Inc()
}

func (m *Metrics) failed() {
	m.shows.WithLabelValues("error").Inc()
}

func (m *Metrics) observe(endpoint string, start time.Time) {
	m.responseTime.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (m *Metrics) setBanners(total, exhausted int) {
	m.banners.WithLabelValues("active").Set(float64(total - exhausted))
	m.banners.WithLabelValues("exhausted").Set(float64(exhausted))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
