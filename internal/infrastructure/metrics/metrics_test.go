package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveProvider(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveProvider("frankfurter", "history", OutcomeSuccess, 10*time.Millisecond)
	m.ObserveProvider("frankfurter", "history", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveProvider("frankfurter", "history", OutcomeTransport, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderRequestsTotal.WithLabelValues("frankfurter", "history", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequestsTotal.WithLabelValues("frankfurter", "history", OutcomeTransport)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ProviderRequestDuration))
}

func TestObserveHTTP(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP("/api/currency/convert", "GET", "200", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/currency/convert", "GET", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveProvider("p", "op", OutcomeSuccess, time.Millisecond)
		m.ObserveHTTP("/", "GET", "200", time.Millisecond)
	})
}
