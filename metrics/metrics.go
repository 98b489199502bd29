package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dcode-github/property_listing_web/client"
)

// Metrics groups the gateway's collectors on their own registry so tests can
// create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	fallbacks       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		backendRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Requests sent to the marketplace backend, by method and outcome.",
		}, []string{"method", "outcome"}),
		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Latency of marketplace backend requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_fallbacks_total",
			Help: "Listing reads served from the sample dataset, by reason.",
		}, []string{"reason"}),
	}
}

// ObserveRequest implements client.Observer.
func (m *Metrics) ObserveRequest(method string, status int, err error, elapsed time.Duration) {
	m.backendRequests.WithLabelValues(method, outcome(status, err)).Inc()
	m.backendDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveFallback counts one demo-mode read.
func (m *Metrics) ObserveFallback(reason string) {
	m.fallbacks.WithLabelValues(reason).Inc()
}

func outcome(status int, err error) string {
	var serr *client.StatusError
	switch {
	case err == nil:
		return strconv.Itoa(status/100) + "xx"
	case errors.As(err, &serr):
		return strconv.Itoa(serr.Status/100) + "xx"
	case status > 0:
		return "read_error"
	default:
		return "network_error"
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
