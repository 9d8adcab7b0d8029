// internal/infrastructure/api/frankfurter_client_test.go
package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damon-houk/currency-rates-service/internal/domain/entity"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logger.Logger {
	return logger.NewJSONLogger(&bytes.Buffer{}, logger.DebugLevel)
}

func TestFetchHistory(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	t.Run("Successful request", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2024-01-01..2024-01-03", r.URL.Path)
			assert.Equal(t, "USD", r.URL.Query().Get("from"))
			assert.Equal(t, "EUR", r.URL.Query().Get("to"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"amount": 1.0,
				"base": "USD",
				"start_date": "2024-01-01",
				"end_date": "2024-01-03",
				"rates": {
					"2024-01-02": {"EUR": 0.91},
					"2024-01-01": {"EUR": 0.90}
				}
			}`))
		}))
		defer mockServer.Close()

		m := metrics.New(prometheus.NewRegistry())
		client := NewFrankfurterClient(mockServer.URL+"/", nil, m, testLogger())

		series, err := client.FetchHistory(context.Background(), "USD", "EUR", start, end)

		require.NoError(t, err)
		assert.Equal(t, entity.RateSeries{
			"2024-01-01": {"EUR": 0.90},
			"2024-01-02": {"EUR": 0.91},
		}, series)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequestsTotal.WithLabelValues("frankfurter", "history", metrics.OutcomeSuccess)))
	})

	t.Run("Error field in body", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "invalid date range"}`))
		}))
		defer mockServer.Close()

		m := metrics.New(prometheus.NewRegistry())
		client := NewFrankfurterClient(mockServer.URL, nil, m, testLogger())

		_, err := client.FetchHistory(context.Background(), "USD", "EUR", start, end)

		var providerErr *entity.ProviderError
		require.True(t, errors.As(err, &providerErr))
		assert.Equal(t, "invalid date range", providerErr.Message)
		assert.False(t, errors.Is(err, entity.ErrProviderTransport))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequestsTotal.WithLabelValues("frankfurter", "history", metrics.OutcomeLogical)))
	})

	t.Run("Null error field is ignored", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": null, "rates": {"2024-01-02": {"EUR": 0.91}}}`))
		}))
		defer mockServer.Close()

		client := NewFrankfurterClient(mockServer.URL, nil, nil, testLogger())

		series, err := client.FetchHistory(context.Background(), "USD", "EUR", start, end)

		require.NoError(t, err)
		assert.Len(t, series, 1)
	})

	t.Run("Missing rates yields empty series", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"base": "USD"}`))
		}))
		defer mockServer.Close()

		client := NewFrankfurterClient(mockServer.URL, nil, nil, testLogger())

		series, err := client.FetchHistory(context.Background(), "USD", "EUR", start, end)

		require.NoError(t, err)
		assert.NotNil(t, series)
		assert.Empty(t, series)
	})

	t.Run("Non-2xx status is a transport error", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "not found"}`))
		}))
		defer mockServer.Close()

		client := NewFrankfurterClient(mockServer.URL, nil, nil, testLogger())

		_, err := client.FetchHistory(context.Background(), "USD", "XXX", start, end)

		assert.True(t, errors.Is(err, entity.ErrProviderTransport))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("Connection failure is a transport error", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		serverURL := mockServer.URL
		mockServer.Close()

		client := NewFrankfurterClient(serverURL, nil, nil, testLogger())

		_, err := client.FetchHistory(context.Background(), "USD", "EUR", start, end)

		assert.True(t, errors.Is(err, entity.ErrProviderTransport))
	})

	t.Run("Malformed body is unclassified", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>oops</html>`))
		}))
		defer mockServer.Close()

		client := NewFrankfurterClient(mockServer.URL, nil, nil, testLogger())

		_, err := client.FetchHistory(context.Background(), "USD", "EUR", start, end)

		require.Error(t, err)
		assert.False(t, errors.Is(err, entity.ErrProviderTransport))
		var providerErr *entity.ProviderError
		assert.False(t, errors.As(err, &providerErr))
		assert.Contains(t, err.Error(), "failed to decode response")
	})
}

func TestNewFrankfurterClientDefaults(t *testing.T) {
	client := NewFrankfurterClient("", nil, nil, nil)

	assert.Equal(t, FrankfurterBaseURL, client.baseURL)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.logger)
}
