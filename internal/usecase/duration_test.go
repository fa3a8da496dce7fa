package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

func TestAnalyzeFromCandlesEmpty(t *testing.T) {
	_, err := NewDurationAnalyzer().AnalyzeFromCandles(nil)
	if !errors.Is(err, models.ErrNoData) {
		t.Fatalf("expected no-data error, got %v", err)
	}
}

func TestAnalyzeFromCandlesTooFew(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	candles := minuteSeries("EURUSD", start, 4)
	_, err := NewDurationAnalyzer().AnalyzeFromCandles(candles)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected insufficient-data error, got %v", err)
	}
}

func TestAnalyzeFromCandlesSpike(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 60)
	for i := range candles {
		rng := 0.0005
		if i >= 14 && i < 20 {
			rng = 0.0050 // volatility burst
		}
		candles[i] = barAt("EURUSD", start.Add(time.Duration(i)*time.Minute), rng)
	}

	vd, err := NewDurationAnalyzer().AnalyzeFromCandles(candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vd.PeakATR <= 0 {
		t.Fatalf("unexpected peak %v", vd.PeakATR)
	}
	if vd.PeakDurationMinutes < 1 {
		t.Fatalf("peak duration must be at least 1, got %d", vd.PeakDurationMinutes)
	}
	if vd.HalfLifeMinutes <= 0 {
		t.Fatalf("unexpected half-life %v", vd.HalfLifeMinutes)
	}
	if vd.HalfLifeMinutes >= float64(vd.PeakDurationMinutes) {
		t.Fatalf("half-life %v not capped below peak duration %d", vd.HalfLifeMinutes, vd.PeakDurationMinutes)
	}
}
