package repository

import (
	"context"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

// CandleLoader reads minute bars from a backing store. Implementations
// exist for sqlite and clickhouse; both return bars sorted by timestamp
// ascending.
type CandleLoader interface {
	Init(ctx context.Context) error // ensure tables, health checks
	LoadCandles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error)
	LoadAllCandles(ctx context.Context, symbol string) ([]models.Candle, error)
	StoreBatch(ctx context.Context, candles []models.Candle) error
	Symbols(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// EventSource reads the economic calendar.
type EventSource interface {
	Init(ctx context.Context) error
	EventsByDescription(ctx context.Context, description string) ([]models.CalendarEvent, error)
	EventsBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)
	EventNames(ctx context.Context) ([]string, error)
	StoreBatch(ctx context.Context, events []models.CalendarEvent) error
	Close() error
}

// ResultCache holds computed analysis payloads keyed by request shape.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, prefix string)
}

type Metrics interface {
	RecordAnalysis(kind, symbol string)
	RecordError(kind string)
	RecordCandlesLoaded(symbol string, count int)
	RecordLatency(op string, seconds float64)
	RecordCacheEvent(hit bool)
}
