// Package service internal/application/service/rate_aggregator.go
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/damon-houk/currency-rates-service/internal/domain/entity"
	domainservice "github.com/damon-houk/currency-rates-service/internal/domain/service"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/middleware"
)

// Client-facing messages. Convert's unexpected message intentionally keeps its own wording.
const (
	MsgHistoryConnect     = "Could not connect to Frankfurter API."
	MsgAPIKeyMissing      = "API key is not configured."
	MsgPopularUnavailable = "Could not retrieve data list."
	MsgRateUnavailable    = "Could not retrieve exchange rate."
	MsgUnexpectedServer   = "An unexpected server error occurred."
	MsgUnexpected         = "An unexpected error occurred."
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system clock
type SystemClock struct{}

// Now returns time.Now
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now calls f
func (f ClockFunc) Now() time.Time {
	return f()
}

// Config is the read-only configuration shared by all requests
type Config struct {
	// APIKey authenticates against the live rate provider; empty means not configured
	APIKey string
	// PopularBase is the base currency of the popular rates snapshot
	PopularBase string
	// PopularCurrencies is the ordered allow-list of the popular rates snapshot
	PopularCurrencies []string
}

// RateAggregator validates requests, calls the rate providers and reshapes their answers
type RateAggregator struct {
	historical domainservice.HistoricalRateProvider
	live       domainservice.LiveRateProvider
	cfg        Config
	clock      Clock
	logger     logger.Logger
}

// NewRateAggregator creates a new rate aggregator
func NewRateAggregator(historical domainservice.HistoricalRateProvider, live domainservice.LiveRateProvider, cfg Config, clock Clock, log logger.Logger) *RateAggregator {
	if cfg.PopularBase == "" {
		cfg.PopularBase = entity.PopularBaseCurrency
	}
	if len(cfg.PopularCurrencies) == 0 {
		cfg.PopularCurrencies = entity.PopularCurrencies
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateAggregator{
		historical: historical,
		live:       live,
		cfg:        cfg,
		clock:      clock,
		logger:     log,
	}
}

// GetHistory returns the rates of req.To against req.From for every published
// date from req.StartDate until today, ascending by date
func (s *RateAggregator) GetHistory(ctx context.Context, req entity.HistoryRequest) (history []entity.HistoryPoint, err error) {
	defer s.recoverTo(ctx, &err, "GetHistory", MsgUnexpectedServer)

	requestID := middleware.GetRequestID(ctx)

	if verr := req.Validate(); verr != nil {
		return nil, validationError(verr)
	}

	start := dateOf(req.StartDate)
	end := dateOf(s.clock.Now())
	startKey := start.Format(entity.DateLayout)
	endKey := end.Format(entity.DateLayout)

	s.logger.Info("Fetching rate history", map[string]interface{}{
		"request_id": requestID,
		"from":       req.From,
		"to":         req.To,
		"start_date": startKey,
		"end_date":   endKey,
	})

	series, err := s.historical.FetchHistory(ctx, req.From, req.To, start, end)
	if err != nil {
		var providerErr *entity.ProviderError
		switch {
		case errors.Is(err, entity.ErrProviderTransport):
			return nil, s.fail(ctx, "GetHistory", entity.ProviderTransportErrorKind, MsgHistoryConnect, http.StatusInternalServerError, err)
		case errors.As(err, &providerErr):
			return nil, s.fail(ctx, "GetHistory", entity.ProviderLogicalErrorKind, providerErr.Message, http.StatusUnprocessableEntity, err)
		default:
			return nil, s.fail(ctx, "GetHistory", entity.UnexpectedErrorKind, MsgUnexpectedServer, http.StatusInternalServerError, err)
		}
	}

	history = make([]entity.HistoryPoint, 0, len(series))
	for dateKey, rates := range series {
		rate, ok := rates[req.To]
		if !ok {
			continue
		}

		date, perr := time.Parse(entity.DateLayout, dateKey)
		if perr != nil {
			return nil, s.fail(ctx, "GetHistory", entity.UnexpectedErrorKind, MsgUnexpectedServer, http.StatusInternalServerError,
				fmt.Errorf("invalid date %q in provider response: %w", dateKey, perr))
		}

		normalized := date.Format(entity.DateLayout)
		if normalized < startKey || normalized > endKey {
			continue
		}

		history = append(history, entity.HistoryPoint{Date: normalized, Rate: rate})
	}

	// ISO dates sort lexicographically
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})

	s.logger.Info("Rate history fetched", map[string]interface{}{
		"request_id": requestID,
		"from":       req.From,
		"to":         req.To,
		"points":     len(history),
	})

	return history, nil
}

// GetPopularRates returns the latest rates from the popular base currency to
// each currency of the allow-list, in allow-list order
func (s *RateAggregator) GetPopularRates(ctx context.Context) (pairs []entity.RatePair, err error) {
	defer s.recoverTo(ctx, &err, "GetPopularRates", MsgUnexpectedServer)

	if s.cfg.APIKey == "" {
		return nil, s.fail(ctx, "GetPopularRates", entity.ConfigurationErrorKind, MsgAPIKeyMissing, http.StatusInternalServerError, entity.ErrAPIKeyMissing)
	}

	s.logger.Info("Fetching popular rates", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"base":       s.cfg.PopularBase,
	})

	all, err := s.live.FetchLatest(ctx, s.cfg.APIKey, s.cfg.PopularBase)
	if err != nil {
		return nil, s.classifyLive(ctx, "GetPopularRates", MsgPopularUnavailable, MsgUnexpectedServer, err)
	}

	pairs = make([]entity.RatePair, 0, len(s.cfg.PopularCurrencies))
	for _, code := range s.cfg.PopularCurrencies {
		rate, ok := all[code]
		if !ok {
			continue
		}
		pairs = append(pairs, entity.RatePair{From: s.cfg.PopularBase, To: code, Rate: rate})
	}

	s.logger.Info("Popular rates fetched", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"count":      len(pairs),
	})

	return pairs, nil
}

// Convert converts req.Amount at the latest pair rate, rounded to four places.
// An empty API key is passed through; the provider's refusal surfaces as MsgRateUnavailable.
func (s *RateAggregator) Convert(ctx context.Context, req entity.ConversionRequest) (result *entity.ConversionResult, err error) {
	defer s.recoverTo(ctx, &err, "Convert", MsgUnexpected)

	if verr := req.Validate(); verr != nil {
		return nil, validationError(verr)
	}

	requestID := middleware.GetRequestID(ctx)

	s.logger.Info("Converting amount", map[string]interface{}{
		"request_id": requestID,
		"from":       req.From,
		"to":         req.To,
		"amount":     req.Amount.String(),
	})

	rate, err := s.live.FetchPair(ctx, s.cfg.APIKey, req.From, req.To)
	if err != nil {
		return nil, s.classifyLive(ctx, "Convert", MsgRateUnavailable, MsgUnexpected, err)
	}

	converted := entity.Convert(req.Amount, rate)

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id":       requestID,
		"from":             req.From,
		"to":               req.To,
		"exchange_rate":    rate,
		"converted_amount": converted.StringFixed(entity.ConvertedAmountPlaces),
	})

	return &entity.ConversionResult{
		Rate:            rate,
		ConvertedAmount: converted,
	}, nil
}

// classifyLive maps a live provider failure; transport and logical errors share one message
func (s *RateAggregator) classifyLive(ctx context.Context, op, unavailable, unexpected string, err error) error {
	var providerErr *entity.ProviderError
	switch {
	case errors.Is(err, entity.ErrProviderTransport):
		return s.fail(ctx, op, entity.ProviderTransportErrorKind, unavailable, http.StatusInternalServerError, err)
	case errors.As(err, &providerErr):
		return s.fail(ctx, op, entity.ProviderLogicalErrorKind, unavailable, http.StatusInternalServerError, err)
	default:
		return s.fail(ctx, op, entity.UnexpectedErrorKind, unexpected, http.StatusInternalServerError, err)
	}
}

// fail logs the cause and builds the client-facing error
func (s *RateAggregator) fail(ctx context.Context, op string, kind entity.ErrorKind, message string, status int, cause error) *entity.APIError {
	fields := map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"operation":  op,
		"kind":       string(kind),
		"status":     status,
		"error":      cause.Error(),
	}

	if kind == entity.UnexpectedErrorKind || status >= http.StatusInternalServerError {
		s.logger.Error("Rate request failed", fields)
	} else {
		s.logger.Warn("Rate request rejected by provider", fields)
	}

	return entity.NewAPIError(kind, message, status, cause)
}

// recoverTo turns a panic in op into the operation's unexpected error
func (s *RateAggregator) recoverTo(ctx context.Context, errp *error, op, message string) {
	if r := recover(); r != nil {
		*errp = s.fail(ctx, op, entity.UnexpectedErrorKind, message, http.StatusInternalServerError, fmt.Errorf("panic: %v", r))
	}
}

func validationError(verr error) *entity.APIError {
	return entity.NewAPIError(entity.ValidationErrorKind, verr.Error(), http.StatusUnprocessableEntity, verr)
}

// dateOf truncates t to its UTC calendar date
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
