// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/deppfellow/cpf-validator/internal/cpf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cpf"

// Metrics tracks validation outcomes, HTTP traffic and rate-limit hits.
//
// Each Metrics owns its registry, so tests can build as many as they like
// without duplicate registration panics.
type Metrics struct {
	registry *prometheus.Registry

	Validations        *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	RateLimitHits      *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of CPF validations by result and failure reason",
		}, []string{"result", "reason"}),
		ValidationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Duration of a single CPF validation",
			Buckets:   []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.001},
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method"}),
		RateLimitHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter, by route",
		}, []string{"route"}),
	}

	// Pre-create every validation series so dashboards see zeros.
	for _, reason := range cpf.Reasons {
		m.Validations.WithLabelValues(resultLabel(reason == cpf.ReasonNone), string(reason))
	}

	return m
}

// ObserveValidation records one validation verdict.
// Call with time.Now() taken before the validation started.
func (m *Metrics) ObserveValidation(reason cpf.Reason, start time.Time) {
	m.Validations.WithLabelValues(resultLabel(reason == cpf.ReasonNone), string(reason)).Inc()
	m.ValidationDuration.Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one finished HTTP request.
func (m *Metrics) ObserveHTTP(route, method, status string, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, status).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// IncrementRateLimitHit records a request rejected by the rate limiter.
func (m *Metrics) IncrementRateLimitHit(route string) {
	m.RateLimitHits.WithLabelValues(route).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func resultLabel(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
