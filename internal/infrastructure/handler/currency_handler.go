// Package handler internal/infrastructure/handler/currency_handler.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/currency-rates-service/internal/application/service"
	"github.com/damon-houk/currency-rates-service/internal/domain/entity"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// Route paths
const (
	HistoryPath      = "/api/currency/history"
	PopularRatesPath = "/api/currency/popular-rates"
	ConvertPath      = "/api/currency/convert"
	HealthPath       = "/health"
)

// RateService is the rate aggregation the handler delegates to
type RateService interface {
	GetHistory(ctx context.Context, req entity.HistoryRequest) ([]entity.HistoryPoint, error)
	GetPopularRates(ctx context.Context) ([]entity.RatePair, error)
	Convert(ctx context.Context, req entity.ConversionRequest) (*entity.ConversionResult, error)
}

// CurrencyHandler handles HTTP requests for currency rates
type CurrencyHandler struct {
	service RateService
	logger  logger.Logger
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(service RateService, log logger.Logger) *CurrencyHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CurrencyHandler{
		service: service,
		logger:  log,
	}
}

// GetHistory handles the rate history of a pair from start_date until today
func (h *CurrencyHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling history request", map[string]interface{}{
		"request_id": requestID,
		"query":      r.URL.RawQuery,
	})

	in, err := readInput(w, r)
	if err != nil {
		h.badRequest(w, requestID, err)
		return
	}

	verr := entity.NewValidationError()
	req := entity.HistoryRequest{
		From:      in.str("from", verr),
		To:        in.str("to", verr),
		StartDate: in.date("start_date", verr),
	}
	if !h.validate(w, requestID, verr, req.Validate()) {
		return
	}

	history, err := h.service.GetHistory(detach(r), req)
	if err != nil {
		h.sendError(w, requestID, err, UnexpectedMessage(r))
		return
	}

	sendJSON(w, h.logger, http.StatusOK, HistoryResponse{Success: true, History: history})
}

// GetPopularRates handles the latest rates of the popular currencies against USD
func (h *CurrencyHandler) GetPopularRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling popular rates request", map[string]interface{}{
		"request_id": requestID,
	})

	rates, err := h.service.GetPopularRates(detach(r))
	if err != nil {
		h.sendError(w, requestID, err, UnexpectedMessage(r))
		return
	}

	sendJSON(w, h.logger, http.StatusOK, PopularRatesResponse{Success: true, Rates: rates})
}

// Convert handles converting an amount at the latest pair rate
func (h *CurrencyHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling convert request", map[string]interface{}{
		"request_id": requestID,
		"method":     r.Method,
	})

	in, err := readInput(w, r)
	if err != nil {
		h.badRequest(w, requestID, err)
		return
	}

	verr := entity.NewValidationError()
	req := entity.ConversionRequest{
		From:   in.str("from", verr),
		To:     in.str("to", verr),
		Amount: in.amount("amount", verr),
	}
	if !h.validate(w, requestID, verr, req.Validate()) {
		return
	}

	result, err := h.service.Convert(detach(r), req)
	if err != nil {
		h.sendError(w, requestID, err, UnexpectedMessage(r))
		return
	}

	sendJSON(w, h.logger, http.StatusOK, ConvertResponse{
		Success:         true,
		Rate:            result.Rate,
		ConvertedAmount: json.Number(result.ConvertedAmount.StringFixed(entity.ConvertedAmountPlaces)),
	})
}

// HealthCheck reports liveness
func (h *CurrencyHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, http.StatusOK, HealthResponse{Status: "ok"})
}

// RegisterRoutes registers the currency handler routes
func (h *CurrencyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(HistoryPath, h.GetHistory).Methods(http.MethodGet)
	router.HandleFunc(PopularRatesPath, h.GetPopularRates).Methods(http.MethodGet)
	router.HandleFunc(ConvertPath, h.Convert).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc(HealthPath, h.HealthCheck).Methods(http.MethodGet)

	h.logger.Info("Currency routes registered", map[string]interface{}{
		"routes": []string{
			"GET " + HistoryPath,
			"GET " + PopularRatesPath,
			"GET|POST " + ConvertPath,
			"GET " + HealthPath,
		},
	})
}

// UnexpectedMessage is the client message for a failure nothing classified on r's route
func UnexpectedMessage(r *http.Request) string {
	if r.URL.Path == ConvertPath {
		return service.MsgUnexpected
	}
	return service.MsgUnexpectedServer
}

// detach keeps request-scoped values but drops the inbound cancellation,
// so a client disconnect does not abort the provider call
func detach(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// validate merges parse and domain validation and writes a 422 on failure
func (h *CurrencyHandler) validate(w http.ResponseWriter, requestID string, verr *entity.ValidationError, domainErr error) bool {
	var domainVerr *entity.ValidationError
	if errors.As(domainErr, &domainVerr) {
		verr.Merge(domainVerr)
	}

	if verr.OrNil() == nil {
		return true
	}

	h.logger.Warn("Validation failed", map[string]interface{}{
		"request_id": requestID,
		"errors":     verr.Fields,
	})

	sendJSON(w, h.logger, verr.Status(), ErrorResponse{
		Success:   false,
		Error:     verr.Error(),
		Errors:    verr.Fields,
		RequestID: requestID,
	})
	return false
}

func (h *CurrencyHandler) badRequest(w http.ResponseWriter, requestID string, err error) {
	h.logger.Warn("Invalid request body", map[string]interface{}{
		"request_id": requestID,
		"error":      err.Error(),
	})

	sendJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
		Success:   false,
		Error:     "The request body could not be parsed.",
		RequestID: requestID,
	})
}

// sendError writes a classified error, falling back to the endpoint's unexpected message
func (h *CurrencyHandler) sendError(w http.ResponseWriter, requestID string, err error, unexpected string) {
	resp := ErrorResponse{Success: false, RequestID: requestID}
	status := http.StatusInternalServerError

	var apiErr *entity.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Status
		resp.Error = apiErr.Message

		var verr *entity.ValidationError
		if errors.As(apiErr.Err, &verr) {
			resp.Errors = verr.Fields
		}
	} else {
		h.logger.Error("Unclassified service error", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		resp.Error = unexpected
	}

	h.logger.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": status,
		"message":     resp.Error,
	})

	sendJSON(w, h.logger, status, resp)
}

func sendJSON(w http.ResponseWriter, log logger.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
