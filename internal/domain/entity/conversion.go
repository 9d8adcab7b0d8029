package entity

import (
	"github.com/shopspring/decimal"
)

const (
	// ConvertedAmountPlaces is the number of fractional digits kept in a converted amount
	ConvertedAmountPlaces = 4

	// MaxAmountIntegerDigits bounds the integer part of an amount
	MaxAmountIntegerDigits = 30
	// MaxAmountScale bounds the fractional digits of an amount
	MaxAmountScale = 30
)

// ConversionRequest asks to convert Amount from one currency to another
type ConversionRequest struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// ConversionResult is the pair rate and the converted amount
type ConversionResult struct {
	Rate            float64
	ConvertedAmount decimal.Decimal
}

// Validate ensures the conversion request meets all requirements
func (r *ConversionRequest) Validate() error {
	verr := NewValidationError()
	verr.CheckCurrency("from", r.From)
	verr.CheckCurrency("to", r.To)
	switch {
	case r.Amount.IsNegative():
		verr.Add("amount", "The amount field must be at least 0.")
	case !AmountInRange(r.Amount):
		verr.Add("amount", "The amount field must be a number.")
	}
	return verr.OrNil()
}

// AmountInRange reports whether amount has at most MaxAmountIntegerDigits integer
// digits and MaxAmountScale fractional digits, exponent included.
func AmountInRange(amount decimal.Decimal) bool {
	exp := int64(amount.Exponent())
	if exp < -MaxAmountScale {
		return false
	}
	return int64(amount.NumDigits())+exp <= MaxAmountIntegerDigits
}

// Convert multiplies amount by rate and rounds half away from zero to ConvertedAmountPlaces
func Convert(amount decimal.Decimal, rate float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(rate)).Round(ConvertedAmountPlaces)
}
