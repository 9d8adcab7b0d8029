// internal/infrastructure/middleware/middleware_test.go
package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damon-houk/currency-rates-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Context().Value(requestIDKey)
		assert.NotNil(t, requestID)

		w.Write([]byte(requestID.(string)))
	})

	middleware := RequestIDMiddleware(nextHandler)

	// Test with no existing request ID
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	middleware.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	requestID := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, w.Body.String())

	// Test with existing request ID
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "test-id-123")
	w = httptest.NewRecorder()
	middleware.ServeHTTP(w, req)

	assert.Equal(t, "test-id-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "test-id-123", w.Body.String())
}

func TestGetRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "test-id-123")
	assert.Equal(t, "test-id-123", GetRequestID(ctx))

	assert.Equal(t, "unknown", GetRequestID(context.Background()))
}

func TestMiddlewareChain(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.InfoLevel)

	finalHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(GetRequestID(r.Context())))
	})

	chain := RequestIDMiddleware(LoggingMiddleware(log)(finalHandler))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "test-id-123")
	w := httptest.NewRecorder()
	chain.ServeHTTP(w, req)

	assert.Equal(t, "test-id-123", w.Body.String())

	logs := buf.String()
	assert.Contains(t, logs, "test-id-123", "Request ID should be in logs")
	assert.Contains(t, logs, "Response sent")
	assert.Contains(t, logs, `"status":202`)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET")

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/items/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/items/{id}", "GET", "404")))
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.InfoLevel)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	RecoveryMiddleware(log, nil)(panicking).ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"An unexpected server error occurred."}`, w.Body.String())
	assert.Contains(t, buf.String(), "Recovered from panic")
}

func TestRecoveryMiddlewareRouteMessage(t *testing.T) {
	log := logger.NewJSONLogger(&bytes.Buffer{}, logger.InfoLevel)

	messageFor := func(r *http.Request) string {
		if r.URL.Path == "/convert" {
			return "An unexpected error occurred."
		}
		return ""
	}
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	recovering := RecoveryMiddleware(log, messageFor)(panicking)

	w := httptest.NewRecorder()
	recovering.ServeHTTP(w, httptest.NewRequest("POST", "/convert", nil))
	assert.JSONEq(t, `{"success":false,"error":"An unexpected error occurred."}`, w.Body.String())

	w = httptest.NewRecorder()
	recovering.ServeHTTP(w, httptest.NewRequest("GET", "/history", nil))
	assert.JSONEq(t, `{"success":false,"error":"An unexpected server error occurred."}`, w.Body.String())
}
