package petshop

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP metrics of one server. Each server has its own
// registry, so several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	results  prometheus.Histogram
}

// NewMetrics registers the server metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: `petshop_http_requests_total`,
				Help: `Total number of HTTP requests by route and status code`,
			},
			[]string{`route`, `code`},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    `petshop_http_request_duration_seconds`,
				Help:    `HTTP request latency by route`,
				Buckets: prometheus.DefBuckets,
			},
			[]string{`route`},
		),
		results: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    `petshop_search_results`,
				Help:    `Number of pets returned per list request`,
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics.
func (self *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(self.registry, promhttp.HandlerOpts{Registry: self.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (self *Metrics) Registry() *prometheus.Registry { return self.registry }
