package api

import (
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
	// ExchangeRateBaseURL is the v6 ExchangeRate-API
	ExchangeRateBaseURL = "https://v6.exchangerate-api.com/v6"

	exchangeRateProvider = "exchangerate-api"
	resultError          = "error"
)

// ErrMissingConversionRate is returned when a successful pair response has no rate
var ErrMissingConversionRate = errors.New("pair response has no conversion_rate")

// ExchangeRateClient implements the live rate provider on ExchangeRate-API
type ExchangeRateClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewExchangeRateClient creates a new ExchangeRate-API client. An empty baseURL
// selects ExchangeRateBaseURL.
func NewExchangeRateClient(baseURL string, httpClient *http.Client, m *metrics.Metrics, log logger.Logger) *ExchangeRateClient {
	if baseURL == "" {
		baseURL = ExchangeRateBaseURL
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: defaultHTTPClient(httpClient),
		metrics:    m,
		logger:     log,
	}
}

// ExchangeRateResponse covers both the latest and the pair responses
type ExchangeRateResponse struct {
	Result          string           `json:"result"`
	ErrorType       string           `json:"error-type"`
	BaseCode        string           `json:"base_code"`
	TargetCode      string           `json:"target_code"`
	ConversionRates entity.RateTable `json:"conversion_rates"`
	ConversionRate  *float64         `json:"conversion_rate"`
}

// FetchLatest retrieves the latest rate table against base
func (c *ExchangeRateClient) FetchLatest(ctx context.Context, apiKey, base string) (rates entity.RateTable, err error) {
	began := time.Now()
	defer func() {
		c.metrics.ObserveProvider(exchangeRateProvider, "latest", outcome(err), time.Since(began))
	}()

	reqURL := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, url.PathEscape(apiKey), url.PathEscape(base))

	resp, err := c.fetch(ctx, reqURL, "latest")
	if err != nil {
		return nil, err
	}

	if resp.ConversionRates == nil {
		return entity.RateTable{}, nil
	}

	return resp.ConversionRates, nil
}

// FetchPair retrieves the latest rate from one currency to another
func (c *ExchangeRateClient) FetchPair(ctx context.Context, apiKey, from, to string) (rate float64, err error) {
	began := time.Now()
	defer func() {
		c.metrics.ObserveProvider(exchangeRateProvider, "pair", outcome(err), time.Since(began))
	}()

	reqURL := fmt.Sprintf("%s/%s/pair/%s/%s", c.baseURL, url.PathEscape(apiKey), url.PathEscape(from), url.PathEscape(to))

	resp, err := c.fetch(ctx, reqURL, "pair")
	if err != nil {
		return 0, err
	}

	if resp.ConversionRate == nil {
		return 0, ErrMissingConversionRate
	}

	return *resp.ConversionRate, nil
}

func (c *ExchangeRateClient) fetch(ctx context.Context, reqURL, operation string) (*ExchangeRateResponse, error) {
	// The key is part of the path, keep it out of the logs
	c.logger.Debug("ExchangeRate API request", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"operation":  operation,
	})

	body, err := get(ctx, c.httpClient, c.logger, reqURL)
	if err != nil {
		return nil, err
	}

	var resp ExchangeRateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.Result == resultError {
		return nil, &entity.ProviderError{Provider: exchangeRateProvider, Message: resp.ErrorType}
	}

	return &resp, nil
}
