package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/damon-houk/currency-rates-service/internal/application/service"
	"github.com/damon-houk/currency-rates-service/internal/config"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/api"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/handler"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/metrics"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.Log.Level))
	logger.SetDefaultLogger(log)

	redacted := cfg.Redacted()
	log.Info("Starting currency rates service", map[string]interface{}{
		"addr":              cfg.Addr(),
		"log_level":         cfg.Log.Level,
		"frankfurter_url":   cfg.Frankfurter.URL,
		"exchange_rate_url": cfg.ExchangeRate.URL,
		"api_key":           redacted.ExchangeRate.APIKey,
	})
	if cfg.ExchangeRate.APIKey == "" {
		logger.Warn("EXCHANGE_RATE_API_KEY is not set, popular rates and conversion will fail", nil)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Provider clients
	frankfurter := api.NewFrankfurterClient(
		cfg.Frankfurter.URL,
		&http.Client{Timeout: cfg.Frankfurter.Timeout},
		m,
		log.WithField("component", "frankfurter"),
	)
	exchangeRate := api.NewExchangeRateClient(
		cfg.ExchangeRate.URL,
		&http.Client{Timeout: cfg.ExchangeRate.Timeout},
		m,
		log.WithField("component", "exchangerate-api"),
	)

	aggregator := service.NewRateAggregator(
		frankfurter,
		exchangeRate,
		service.Config{APIKey: cfg.ExchangeRate.APIKey},
		service.SystemClock{},
		log.WithField("component", "rate_aggregator"),
	)
	currencyHandler := handler.NewCurrencyHandler(aggregator, log.WithField("component", "handler"))

	router := mux.NewRouter()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.MetricsMiddleware(m),
		middleware.RecoveryMiddleware(log, handler.UnexpectedMessage),
	)
	currencyHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-done:
		log.Info("Gracefully shutting down", map[string]interface{}{"signal": sig.String()})
	case err := <-serverErr:
		if err != nil {
			log.Fatal("Server failed", map[string]interface{}{"error": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info("Server stopped", nil)
}
