package entity

import (
	"time"
)

// DateLayout is the calendar date format used on every wire boundary
const DateLayout = "2006-01-02"

// PopularBaseCurrency is the base currency for the popular rates snapshot
const PopularBaseCurrency = "USD"

// PopularCurrencies is the ordered allow-list of currencies surfaced by the popular rates snapshot
var PopularCurrencies = []string{
	"USD", "EUR", "JPY", "GBP", "CNY", "AUD", "CAD", "CHF", "HKD", "SGD",
	"SEK", "KRW", "NOK", "NZD", "INR", "MXN", "TWD", "ZAR", "BRL", "DKK",
}

// HistoryPoint is a single dated rate in a history series
type HistoryPoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// RatePair is the exchange rate from one currency to another
type RatePair struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}

// RateSeries is the historical provider's answer: date -> currency -> rate
type RateSeries map[string]map[string]float64

// RateTable is the live provider's latest-rates answer: currency -> rate
type RateTable map[string]float64

// HistoryRequest asks for the rate history of a pair from StartDate until today
type HistoryRequest struct {
	From      string
	To        string
	StartDate time.Time
}

// Validate checks the currency code invariants of the request
func (r *HistoryRequest) Validate() error {
	verr := NewValidationError()
	verr.CheckCurrency("from", r.From)
	verr.CheckCurrency("to", r.To)
	if r.StartDate.IsZero() {
		verr.Add("start_date", "The start date field is required.")
	}
	return verr.OrNil()
}
