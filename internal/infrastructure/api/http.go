package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/damon-houk/currency-rates-service/internal/domain/entity"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/logger"
)

// DefaultTimeout bounds a provider call when no http.Client is supplied
const DefaultTimeout = 10 * time.Second

func defaultHTTPClient(httpClient *http.Client) *http.Client {
	if httpClient != nil {
		return httpClient
	}
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}

// get performs a single GET and returns the body of a 2xx response.
// Network failures and non-2xx statuses wrap entity.ErrProviderTransport.
func get(ctx context.Context, httpClient *http.Client, log logger.Logger, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		// url.Error repeats the URL, which may carry an API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: failed to execute request: %v", entity.ErrProviderTransport, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", entity.ErrProviderTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: API returned error status: %d, body: %s",
			entity.ErrProviderTransport, resp.StatusCode, truncate(bodyBytes, 512))
	}

	return bodyBytes, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
