package entity

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// ErrorKind classifies a failure for the client-facing error mapping
type ErrorKind string

const (
	// ValidationErrorKind is malformed or missing input, rejected before any provider call
	ValidationErrorKind ErrorKind = "ValidationError"
	// ProviderTransportErrorKind is a network failure or non-2xx status from a provider
	ProviderTransportErrorKind ErrorKind = "ProviderTransportError"
	// ProviderLogicalErrorKind is a provider response that signals an application-level error
	ProviderLogicalErrorKind ErrorKind = "ProviderLogicalError"
	// ConfigurationErrorKind is missing configuration, such as the live provider API key
	ConfigurationErrorKind ErrorKind = "ConfigurationError"
	// UnexpectedErrorKind is anything not classified above
	UnexpectedErrorKind ErrorKind = "UnexpectedError"
)

// CurrencyCodeLength is the required length of a currency code
const CurrencyCodeLength = 3

var (
	// ErrProviderTransport is wrapped by provider clients when the call itself fails
	ErrProviderTransport = errors.New("provider transport failure")
	// ErrAPIKeyMissing is returned when the live provider API key is not configured
	ErrAPIKeyMissing = errors.New("api key is not configured")
)

// ProviderError is an error reported inside a provider's response body
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s reported an error: %s", e.Provider, e.Message)
}

// APIError is a classified failure carrying the message and status returned to the client
type APIError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

// NewAPIError creates an APIError wrapping cause
func NewAPIError(kind ErrorKind, message string, status int, cause error) *APIError {
	return &APIError{
		Kind:    kind,
		Message: message,
		Status:  status,
		Err:     cause,
	}
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ValidationError collects per-field validation messages in insertion order
type ValidationError struct {
	Fields map[string][]string
	order  []string
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records a message for field
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Has reports whether field already has a message
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// CheckCurrency records the required and length rules for a currency code field
func (e *ValidationError) CheckCurrency(field, value string) {
	if e.Has(field) {
		return
	}
	if value == "" {
		e.Add(field, fmt.Sprintf("The %s field is required.", field))
		return
	}
	if utf8.RuneCountInString(value) != CurrencyCodeLength {
		e.Add(field, fmt.Sprintf("The %s field must be %d characters.", field, CurrencyCodeLength))
	}
}

// Merge adds the messages of other for fields that have none yet
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for _, field := range other.order {
		if e.Has(field) {
			continue
		}
		for _, msg := range other.Fields[field] {
			e.Add(field, msg)
		}
	}
}

// OrNil returns nil when no field failed, so callers can return it as an error
func (e *ValidationError) OrNil() error {
	if len(e.order) == 0 {
		return nil
	}
	return e
}

// Error returns the first recorded message
func (e *ValidationError) Error() string {
	if len(e.order) == 0 {
		return "validation failed"
	}
	return e.Fields[e.order[0]][0]
}

// Status is the HTTP status used for validation failures
func (e *ValidationError) Status() int {
	return http.StatusUnprocessableEntity
}
