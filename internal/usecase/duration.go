package usecase

import (
	"fmt"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

// DurationAnalyzer measures how long elevated volatility persists in a
// candle slice by walking its smoothed ATR curve.
type DurationAnalyzer struct {
	atr SmoothedTrueRange
}

func NewDurationAnalyzer() *DurationAnalyzer { return &DurationAnalyzer{} }

// AnalyzeFromCandles computes the peak duration and half-life of the ATR
// curve. At least 5 bars are required.
func (d *DurationAnalyzer) AnalyzeFromCandles(candles []models.Candle) (models.VolatilityDuration, error) {
	if len(candles) == 0 {
		return models.VolatilityDuration{}, fmt.Errorf("%w: empty slice", models.ErrNoData)
	}
	if len(candles) < 5 {
		return models.VolatilityDuration{}, fmt.Errorf("%w: need 5 candles, have %d", models.ErrInsufficientData, len(candles))
	}

	atr := d.atr.Series(candles)
	peak, peakIdx := seriesPeak(atr)
	if peak <= 0 {
		return models.VolatilityDuration{}, fmt.Errorf("%w: flat series", models.ErrInsufficientData)
	}

	peakDuration := peakDurationMinutes(atr, peak)
	halfLife := halfLifeMinutes(atr, peakIdx, peak)
	if halfLife >= float64(peakDuration) {
		halfLife = float64(peakDuration) * 0.9
	}

	return models.VolatilityDuration{
		PeakDurationMinutes: peakDuration,
		HalfLifeMinutes:     halfLife,
		PeakATR:             peak,
	}, nil
}

func seriesPeak(values []float64) (float64, int) {
	peak, idx := values[0], 0
	for i, v := range values {
		if v > peak {
			peak, idx = v, i
		}
	}
	return peak, idx
}

// peakDurationMinutes counts the bars above 80% of the peak, at least 1.
func peakDurationMinutes(atr []float64, peak float64) int {
	threshold := peak * 0.8
	count := 0
	for _, v := range atr {
		if v > threshold {
			count++
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

// halfLifeMinutes finds the first bar after the peak at or below half the
// peak. When the curve never decays that far, the remaining length counts.
func halfLifeMinutes(atr []float64, peakIdx int, peak float64) float64 {
	threshold := peak * 0.5
	for i := peakIdx + 1; i < len(atr); i++ {
		if atr[i] <= threshold {
			return float64(i - peakIdx)
		}
	}
	hl := len(atr) - peakIdx
	if hl < 1 {
		hl = 1
	}
	return float64(hl)
}
