package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	"github.com/Rono40230/Analyses-historiques/pkg/logger"
)

type fakeLoader struct {
	candles map[string][]models.Candle
	loads   int
}

func (f *fakeLoader) Init(ctx context.Context) error { return nil }

func (f *fakeLoader) LoadCandles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	var out []models.Candle
	for _, c := range f.candles[symbol] {
		if !c.Timestamp.Before(from) && !c.Timestamp.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeLoader) LoadAllCandles(ctx context.Context, symbol string) ([]models.Candle, error) {
	f.loads++
	return f.candles[symbol], nil
}

func (f *fakeLoader) StoreBatch(ctx context.Context, candles []models.Candle) error { return nil }

func (f *fakeLoader) Symbols(ctx context.Context) ([]string, error) {
	var out []string
	for s := range f.candles {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeLoader) Health(ctx context.Context) error { return nil }
func (f *fakeLoader) Close() error                     { return nil }

type fakeEvents struct {
	events []models.CalendarEvent
}

func (f *fakeEvents) Init(ctx context.Context) error { return nil }

func (f *fakeEvents) EventsByDescription(ctx context.Context, description string) ([]models.CalendarEvent, error) {
	var out []models.CalendarEvent
	for _, e := range f.events {
		if e.Description == description {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) EventsBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	return f.events, nil
}

func (f *fakeEvents) EventNames(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeEvents) StoreBatch(ctx context.Context, events []models.CalendarEvent) error {
	return nil
}

func (f *fakeEvents) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(kind, symbol string) {}

func (nopMetrics) RecordError(kind string) {}

func (nopMetrics) RecordCandlesLoaded(symbol string, count int) {}

func (nopMetrics) RecordLatency(op string, seconds float64) {}

func (nopMetrics) RecordCacheEvent(hit bool) {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// barAt builds a minute bar with the given range centered on 1.1000.
func barAt(symbol string, ts time.Time, rng float64) models.Candle {
	half := rng / 2
	return models.Candle{
		Symbol:    symbol,
		Timestamp: ts,
		Open:      1.1000,
		High:      1.1000 + half,
		Low:       1.1000 - half,
		Close:     1.1000,
		Volume:    100,
	}
}
