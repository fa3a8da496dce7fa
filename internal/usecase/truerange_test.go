package usecase

import (
	"testing"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

func TestInstantTrueRangeMeanOfRanges(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	ranges := []float64{0.0002, 0.0004, 0.0006, 0.0008, 0.0010}
	candles := make([]models.Candle, len(ranges))
	for i, r := range ranges {
		candles[i] = barAt("EURUSD", start.Add(time.Duration(i)*time.Minute), r)
	}

	series := InstantTrueRange{}.Series(candles)
	if len(series) != 5 {
		t.Fatalf("unexpected length %d", len(series))
	}
	// Mean range 0.0006 = 6.0 pips.
	if got := models.NormalizeToPips(mean(series), "EURUSD"); got < 5.99 || got > 6.01 {
		t.Fatalf("unexpected mean %v", got)
	}
}

func TestSmoothedTrueRangeSeed(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 14)
	for i := range candles {
		candles[i] = barAt("EURUSD", start.Add(time.Duration(i)*time.Minute), 0.0014)
	}

	series := SmoothedTrueRange{}.Series(candles)
	if len(series) != 1 {
		t.Fatalf("unexpected length %d", len(series))
	}
	// 14 equal true ranges seed the ATR at their value.
	if series[0] < 0.00139 || series[0] > 0.00141 {
		t.Fatalf("unexpected seed %v", series[0])
	}
}

func TestSmoothedTrueRangeConverges(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 60)
	for i := range candles {
		rng := 0.0010
		if i >= 30 {
			rng = 0.0030
		}
		candles[i] = barAt("EURUSD", start.Add(time.Duration(i)*time.Minute), rng)
	}

	series := SmoothedTrueRange{}.Series(candles)
	first, last := series[0], series[len(series)-1]
	if last <= first {
		t.Fatalf("ATR should rise toward the wider regime: first %v last %v", first, last)
	}
	if last > 0.0030 {
		t.Fatalf("ATR overshot the true range: %v", last)
	}
}

func TestSmoothedTrueRangeTooShort(t *testing.T) {
	if got := (SmoothedTrueRange{}).Series(nil); got != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestTrueRangeByName(t *testing.T) {
	if TrueRangeByName("smoothed").Name() != "smoothed" {
		t.Fatalf("expected smoothed")
	}
	if TrueRangeByName("").Name() != "instant" {
		t.Fatalf("expected instant default")
	}
	if TrueRangeByName("bogus").Name() != "instant" {
		t.Fatalf("expected instant fallback")
	}
}
