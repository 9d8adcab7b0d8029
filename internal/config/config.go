package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPServer   HTTPServer
	Log          Log
	Frankfurter  Frankfurter
	ExchangeRate ExchangeRate
}

type HTTPServer struct {
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"INFO"`
}

// Frankfurter configures the historical provider. A zero Timeout leaves the
// http.Client unbounded.
type Frankfurter struct {
	URL     string        `env:"FRANKFURTER_URL" env-default:"https://api.frankfurter.app"`
	Timeout time.Duration `env:"PROVIDER_TIMEOUT" env-default:"10s"`
}

// ExchangeRate configures the keyed live-rates provider. An empty APIKey is
// reported per request, never at startup.
type ExchangeRate struct {
	URL     string        `env:"EXCHANGE_RATE_API_URL" env-default:"https://v6.exchangerate-api.com/v6"`
	APIKey  string        `env:"EXCHANGE_RATE_API_KEY"`
	Timeout time.Duration `env:"PROVIDER_TIMEOUT" env-default:"10s"`
}

// Load reads the optional .env file and then the environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// a missing .env is normal outside local development
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address of the HTTP server
func (c Config) Addr() string {
	return ":" + c.HTTPServer.Port
}

// Redacted returns a copy that is safe to log
func (c Config) Redacted() Config {
	if c.ExchangeRate.APIKey != "" {
		c.ExchangeRate.APIKey = "***"
	}
	return c
}
