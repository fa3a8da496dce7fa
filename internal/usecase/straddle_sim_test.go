package usecase

import (
	"testing"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

func flatBar(ts time.Time, price float64) models.Candle {
	return models.Candle{
		Symbol:    "EURUSD",
		Timestamp: ts,
		Open:      price,
		High:      price,
		Low:       price,
		Close:     price,
		Volume:    10,
	}
}

func TestSimulateEmpty(t *testing.T) {
	sim := NewStraddleSimulator()
	r := sim.Simulate(nil, "EURUSD")
	if r.TotalTrades != 0 {
		t.Fatalf("unexpected trades %d", r.TotalTrades)
	}
	if r.RiskLevel != "N/A" || r.RiskColor != "#6b7280" {
		t.Fatalf("unexpected risk %s %s", r.RiskLevel, r.RiskColor)
	}
}

// Flat bars trigger the buy leg (ties go to the buy stop) and resolve as
// wins on the following bar; the final bar has no lookahead and counts as
// a plain loss, not a whipsaw.
func TestSimulateBuyTieBreakAndUnresolvedLoss(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 16)
	for i := range candles {
		candles[i] = flatBar(start.Add(time.Duration(i)*time.Minute), 1.2000)
	}

	r := NewStraddleSimulator().Simulate(candles, "EURUSD")
	if r.TotalTrades != 16 {
		t.Fatalf("unexpected trades %d", r.TotalTrades)
	}
	if r.Wins != 15 || r.Losses != 1 {
		t.Fatalf("unexpected wins/losses %d/%d", r.Wins, r.Losses)
	}
	if r.Whipsaws != 0 {
		t.Fatalf("unresolved loss must not count as whipsaw, got %d", r.Whipsaws)
	}
	if r.WinRate != 93.75 {
		t.Fatalf("unexpected win rate %v", r.WinRate)
	}
	if r.RiskLevel != "Low" {
		t.Fatalf("unexpected risk %s", r.RiskLevel)
	}
}

// A gap down right after the first trigger hits the stop before any
// target, producing one time-weighted whipsaw.
func TestSimulateWhipsawWeighting(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 16)
	candles[0] = flatBar(start, 1.2000)
	for i := 1; i < 16; i++ {
		candles[i] = flatBar(start.Add(time.Duration(i)*time.Minute), 1.1900)
	}

	r := NewStraddleSimulator().Simulate(candles, "EURUSD")
	if r.TotalTrades != 16 {
		t.Fatalf("unexpected trades %d", r.TotalTrades)
	}
	if r.Whipsaws != 1 {
		t.Fatalf("expected one whipsaw, got %d", r.Whipsaws)
	}
	// One whipsaw after 1 minute weighs 0.8: 0.8/16 = 5%.
	if r.WhipsawFrequency < 4.99 || r.WhipsawFrequency > 5.01 {
		t.Fatalf("unexpected whipsaw frequency %v", r.WhipsawFrequency)
	}
	if r.Wins != 14 || r.Losses != 2 {
		t.Fatalf("unexpected wins/losses %d/%d", r.Wins, r.Losses)
	}
}

// Only the bar whose high clears the derived offset triggers; quiet
// bars with sub-offset wicks place no trade.
func TestSimulateSingleBreakoutBar(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 40)
	for i := range candles {
		candles[i] = models.Candle{
			Symbol:    "EURUSD",
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Open:      1.1000,
			High:      1.1002,
			Low:       1.0998,
			Close:     1.1000,
			Volume:    10,
		}
	}
	candles[3].High = 1.1012

	r := NewStraddleSimulator().Simulate(candles, "EURUSD")
	if r.TotalTrades != 1 {
		t.Fatalf("expected exactly one trade, got %d", r.TotalTrades)
	}
	// The breakout retraces to the entry stop on the next quiet bar.
	if r.Wins != 0 || r.Losses != 1 || r.Whipsaws != 1 {
		t.Fatalf("unexpected resolution %d/%d/%d", r.Wins, r.Losses, r.Whipsaws)
	}
	if r.WinRate != 0 {
		t.Fatalf("unexpected win rate %v", r.WinRate)
	}
}

func TestWhipsawCoefficientBuckets(t *testing.T) {
	cases := map[int]float64{0: 1.0, 1: 0.8, 2: 0.8, 3: 0.6, 5: 0.6, 6: 0.3, 10: 0.3, 11: 0.1, 15: 0.1}
	for minutes, want := range cases {
		if got := whipsawCoefficient(minutes); got != want {
			t.Fatalf("minutes %d: got %v want %v", minutes, got, want)
		}
	}
}

func TestRiskLevels(t *testing.T) {
	cases := []struct {
		freq  float64
		level string
	}{
		{5, "Low"},
		{15, "Medium"},
		{25, "High"},
		{45, "Critical"},
	}
	for _, tc := range cases {
		level, _ := riskLevel(tc.freq)
		if level != tc.level {
			t.Fatalf("freq %v: got %s want %s", tc.freq, level, tc.level)
		}
	}
}
