package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for provider calls
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeLogical   = "provider_error"
	OutcomeDecode    = "decode_error"
)

// Metrics holds the collectors for inbound requests and outbound provider calls.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal       *prometheus.CounterVec
	HTTPRequestDuration     *prometheus.HistogramVec
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "currency_http_requests_total",
				Help: "Inbound HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "currency_http_request_duration_seconds",
				Help:    "Inbound HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "currency_provider_requests_total",
				Help: "Outbound rate provider calls by provider, operation and outcome",
			},
			[]string{"provider", "operation", "outcome"},
		),
		ProviderRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "currency_provider_request_duration_seconds",
				Help:    "Outbound rate provider call latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.025, 2, 10), // 25ms .. ~12.8s
			},
			[]string{"provider", "operation"},
		),
	}
}

// ObserveProvider records one outbound provider call
func (m *Metrics) ObserveProvider(provider, operation, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequestsTotal.WithLabelValues(provider, operation, outcome).Inc()
	m.ProviderRequestDuration.WithLabelValues(provider, operation).Observe(took.Seconds())
}

// ObserveHTTP records one inbound request
func (m *Metrics) ObserveHTTP(route, method, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route, method).Observe(took.Seconds())
}
