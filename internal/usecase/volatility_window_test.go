package usecase

import (
	"testing"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

func TestComputeEmptySlice(t *testing.T) {
	calc := NewVolatilityWindowCalculator(30*time.Minute, 7)
	m := calc.Compute(nil, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC))
	if m.EventVolatility != 0 || m.BaselineVolatility != 0 {
		t.Fatalf("expected zero metrics, got %+v", m)
	}
	if m.Multiplier() != 0 {
		t.Fatalf("expected zero multiplier, got %v", m.Multiplier())
	}
}

func TestComputeEventWindowInclusive(t *testing.T) {
	eventTime := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	calc := NewVolatilityWindowCalculator(30*time.Minute, 7)

	candles := []models.Candle{
		barAt("EURUSD", eventTime.Add(-30*time.Minute), 0.0020), // on the edge
		barAt("EURUSD", eventTime, 0.0040),
		barAt("EURUSD", eventTime.Add(30*time.Minute), 0.0060), // on the edge
		barAt("EURUSD", eventTime.Add(31*time.Minute), 0.0100), // outside
	}

	m := calc.Compute(candles, eventTime)
	// (20 + 40 + 60) / 3 pips
	if m.EventVolatility < 39.9 || m.EventVolatility > 40.1 {
		t.Fatalf("unexpected event volatility %v", m.EventVolatility)
	}
}

func TestComputeBaselineSameHourExcludesEventDate(t *testing.T) {
	eventTime := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	calc := NewVolatilityWindowCalculator(30*time.Minute, 7)

	candles := []models.Candle{
		// Same hour on previous days: counted.
		barAt("EURUSD", eventTime.AddDate(0, 0, -1), 0.0010),
		barAt("EURUSD", eventTime.AddDate(0, 0, -2), 0.0030),
		// Same hour on the event date: excluded from baseline.
		barAt("EURUSD", eventTime.Add(-10*time.Minute), 0.0100),
		// Different hour the day before: excluded.
		barAt("EURUSD", eventTime.AddDate(0, 0, -1).Add(2*time.Hour), 0.0100),
		// Beyond the lookback: excluded.
		barAt("EURUSD", eventTime.AddDate(0, 0, -8), 0.0100),
	}

	m := calc.Compute(candles, eventTime)
	// (10 + 30) / 2 pips
	if m.BaselineVolatility < 19.9 || m.BaselineVolatility > 20.1 {
		t.Fatalf("unexpected baseline %v", m.BaselineVolatility)
	}
}

func TestMultiplierZeroBaseline(t *testing.T) {
	m := models.VolatilityMetrics{EventVolatility: 42, BaselineVolatility: 0}
	if m.Multiplier() != 0 {
		t.Fatalf("expected 0 for empty baseline, got %v", m.Multiplier())
	}
}

func TestMultiplier(t *testing.T) {
	m := models.VolatilityMetrics{EventVolatility: 40, BaselineVolatility: 8}
	if m.Multiplier() != 5 {
		t.Fatalf("unexpected multiplier %v", m.Multiplier())
	}
}
