package usecase

import (
	"math"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

// TrueRangeStrategy turns a candle series into a per-bar volatility series.
// Strategies are interchangeable; callers pick one by name through
// TrueRangeByName.
type TrueRangeStrategy interface {
	Name() string
	Series(candles []models.Candle) []float64
}

// InstantTrueRange measures each bar in isolation,
// max(high-low, |high-close|, |close-low|) on the bar's own values. It
// reacts immediately and is the default for event window profiling.
type InstantTrueRange struct{}

func (InstantTrueRange) Name() string { return "instant" }

func (InstantTrueRange) Series(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = math.Max(c.High-c.Low, math.Max(math.Abs(c.High-c.Close), math.Abs(c.Close-c.Low)))
	}
	return out
}

// SmoothedTrueRange is the Wilder 14-period ATR. The first value is the
// mean of the first 14 true ranges, later values blend in each new bar
// with weight 1/14. Output is shorter than the input by 13 bars when the
// input exceeds the period.
type SmoothedTrueRange struct{}

const wilderPeriod = 14.0

func (SmoothedTrueRange) Name() string { return "smoothed" }

func (SmoothedTrueRange) Series(candles []models.Candle) []float64 {
	if len(candles) < 2 {
		return nil
	}
	tr := make([]float64, len(candles))
	for i, c := range candles {
		hl := c.High - c.Low
		if i == 0 {
			tr[i] = hl
			continue
		}
		pc := candles[i-1].Close
		tr[i] = math.Max(hl, math.Max(math.Abs(c.High-pc), math.Abs(c.Low-pc)))
	}

	var seed float64
	n := len(tr)
	if n > 14 {
		n = 14
	}
	for i := 0; i < n; i++ {
		seed += tr[i]
	}
	atr := seed / wilderPeriod

	out := []float64{atr}
	for i := 14; i < len(tr); i++ {
		atr = (atr*(wilderPeriod-1) + tr[i]) / wilderPeriod
		out = append(out, atr)
	}
	return out
}

// TrueRangeByName resolves a strategy name, defaulting to instant.
func TrueRangeByName(name string) TrueRangeStrategy {
	if name == "smoothed" {
		return SmoothedTrueRange{}
	}
	return InstantTrueRange{}
}
