package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plate_changer"

// Metrics holds the service collectors on a dedicated registry.
type Metrics struct {
	registry     *prometheus.Registry
	plans        *prometheus.CounterVec
	planDuration prometheus.Histogram
	operations   prometheus.Histogram
	requests     *prometheus.CounterVec
}

// New creates and registers all collectors, including Go runtime and process metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Plate change plans by outcome.",
		}, []string{"outcome"}),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_duration_seconds",
			Help:      "Time spent validating input and solving both targets.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		operations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_operations",
			Help:      "Plate-pair moves recommended by successful plans.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		m.plans,
		m.planDuration,
		m.operations,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObservePlan records a plan outcome. Operations are only recorded for successful plans.
func (m *Metrics) ObservePlan(outcome string, duration time.Duration, operations int) {
	m.plans.WithLabelValues(outcome).Inc()
	m.planDuration.Observe(duration.Seconds())
	if outcome == "ok" {
		m.operations.Observe(float64(operations))
	}
}

// ObserveRequest records a served HTTP request.
func (m *Metrics) ObserveRequest(method string, status int) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
