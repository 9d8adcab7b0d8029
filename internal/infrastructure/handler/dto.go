package handler

import (
	"encoding/json"

	"github.com/damon-houk/currency-rates-service/internal/domain/entity"
)

// HistoryResponse represents the response for the history endpoint
type HistoryResponse struct {
	Success bool                  `json:"success"`
	History []entity.HistoryPoint `json:"history"`
}

// PopularRatesResponse represents the response for the popular rates endpoint
type PopularRatesResponse struct {
	Success bool              `json:"success"`
	Rates   []entity.RatePair `json:"rates"`
}

// ConvertResponse represents the response for the convert endpoint.
// ConvertedAmount is written with exactly four fractional digits.
type ConvertResponse struct {
	Success         bool        `json:"success"`
	Rate            float64     `json:"rate"`
	ConvertedAmount json.Number `json:"convertedAmount"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success   bool                `json:"success"`
	Error     string              `json:"error"`
	Errors    map[string][]string `json:"errors,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
