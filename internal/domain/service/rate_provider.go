package service

import (
	"context"
	"time"

	"github.com/damon-houk/currency-rates-service/internal/domain/entity"
)

// HistoricalRateProvider serves rates over a date range
type HistoricalRateProvider interface {
	// FetchHistory retrieves the rates of to against from for every published date in [start, end]
	FetchHistory(ctx context.Context, from, to string, start, end time.Time) (entity.RateSeries, error)
}

// LiveRateProvider serves the latest rates and pair rates
type LiveRateProvider interface {
	// FetchLatest retrieves the latest rate table against base
	FetchLatest(ctx context.Context, apiKey, base string) (entity.RateTable, error)

	// FetchPair retrieves the latest rate from one currency to another
	FetchPair(ctx context.Context, apiKey, from, to string) (float64, error)
}
