package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/damon-houk/currency-rates-service/internal/domain/entity"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/metrics"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/middleware"
)

const (
	// FrankfurterBaseURL is the public Frankfurter API
	FrankfurterBaseURL = "https://api.frankfurter.app"

	frankfurterProvider = "frankfurter"
)

// FrankfurterClient implements the historical rate provider on the Frankfurter API
type FrankfurterClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewFrankfurterClient creates a new Frankfurter API client. An empty baseURL
// selects FrankfurterBaseURL.
func NewFrankfurterClient(baseURL string, httpClient *http.Client, m *metrics.Metrics, log logger.Logger) *FrankfurterClient {
	if baseURL == "" {
		baseURL = FrankfurterBaseURL
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &FrankfurterClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: defaultHTTPClient(httpClient),
		metrics:    m,
		logger:     log,
	}
}

// FrankfurterResponse represents the time series response of the Frankfurter API
type FrankfurterResponse struct {
	Base      string            `json:"base"`
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Rates     entity.RateSeries `json:"rates"`
	Error     json.RawMessage   `json:"error"`
}

// errorMessage returns the error field as text, or "" when absent or null
func (r *FrankfurterResponse) errorMessage() string {
	raw := bytes.TrimSpace(r.Error)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg
	}
	return string(raw)
}

// FetchHistory retrieves the daily rates of to against from between start and end inclusive
func (c *FrankfurterClient) FetchHistory(ctx context.Context, from, to string, start, end time.Time) (series entity.RateSeries, err error) {
	began := time.Now()
	defer func() {
		c.metrics.ObserveProvider(frankfurterProvider, "history", outcome(err), time.Since(began))
	}()

	reqURL := fmt.Sprintf("%s/%s..%s?from=%s&to=%s",
		c.baseURL,
		start.Format(entity.DateLayout),
		end.Format(entity.DateLayout),
		url.QueryEscape(from),
		url.QueryEscape(to))

	c.logger.Debug("Frankfurter API request", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"url":        reqURL,
	})

	body, err := get(ctx, c.httpClient, c.logger, reqURL)
	if err != nil {
		return nil, err
	}

	var frankResp FrankfurterResponse
	if err := json.Unmarshal(body, &frankResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if msg := frankResp.errorMessage(); msg != "" {
		return nil, &entity.ProviderError{Provider: frankfurterProvider, Message: msg}
	}

	if frankResp.Rates == nil {
		return entity.RateSeries{}, nil
	}

	return frankResp.Rates, nil
}

// outcome classifies err for the provider metrics
func outcome(err error) string {
	var providerErr *entity.ProviderError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, entity.ErrProviderTransport):
		return metrics.OutcomeTransport
	case errors.As(err, &providerErr):
		return metrics.OutcomeLogical
	default:
		return metrics.OutcomeDecode
	}
}
