// internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/damon-houk/currency-rates-service/internal/domain/entity"
	"github.com/damon-houk/currency-rates-service/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockHistoricalRateProvider mocks the HistoricalRateProvider interface
type MockHistoricalRateProvider struct {
	mock.Mock
}

func (m *MockHistoricalRateProvider) FetchHistory(ctx context.Context, from, to string, start, end time.Time) (entity.RateSeries, error) {
	args := m.Called(ctx, from, to, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.RateSeries), args.Error(1)
}

// MockLiveRateProvider mocks the LiveRateProvider interface
type MockLiveRateProvider struct {
	mock.Mock
}

func (m *MockLiveRateProvider) FetchLatest(ctx context.Context, apiKey, base string) (entity.RateTable, error) {
	args := m.Called(ctx, apiKey, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.RateTable), args.Error(1)
}

func (m *MockLiveRateProvider) FetchPair(ctx context.Context, apiKey, from, to string) (float64, error) {
	args := m.Called(ctx, apiKey, from, to)
	return args.Get(0).(float64), args.Error(1)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}
