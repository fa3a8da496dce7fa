package usecase

import (
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

// VolatilityWindowCalculator measures how a single event instant moved one
// instrument against its own habitual behaviour at that hour of day.
type VolatilityWindowCalculator struct {
	EventWindow  time.Duration // half-width of the event window
	BaselineDays int           // how far back the baseline looks
}

func NewVolatilityWindowCalculator(eventWindow time.Duration, baselineDays int) *VolatilityWindowCalculator {
	return &VolatilityWindowCalculator{EventWindow: eventWindow, BaselineDays: baselineDays}
}

// rangePips is the fixed pip proxy used for cross-pair window comparison.
// Every pair is scaled identically so multipliers stay comparable.
func rangePips(c models.Candle) float64 {
	return (c.High - c.Low) * 10000
}

// Compute walks the candle slice once and returns the mean bar range
// inside the event window and the mean range of the baseline. The baseline
// is every bar of the preceding BaselineDays days that shares the event's
// hour of day but not its date. Empty windows yield 0.0, never NaN.
func (v *VolatilityWindowCalculator) Compute(candles []models.Candle, eventTime time.Time) models.VolatilityMetrics {
	et := eventTime.UTC()
	evFrom := et.Add(-v.EventWindow)
	evTo := et.Add(v.EventWindow)
	baseFrom := et.AddDate(0, 0, -v.BaselineDays)
	evHour := et.Hour()
	evY, evM, evD := et.Date()

	var evSum, baseSum float64
	var evCount, baseCount int

	for _, c := range candles {
		ts := c.Timestamp.UTC()

		if !ts.Before(evFrom) && !ts.After(evTo) {
			evSum += rangePips(c)
			evCount++
		}

		if !ts.Before(baseFrom) && ts.Before(et) && ts.Hour() == evHour {
			y, m, d := ts.Date()
			if y != evY || m != evM || d != evD {
				baseSum += rangePips(c)
				baseCount++
			}
		}
	}

	var m models.VolatilityMetrics
	if evCount > 0 {
		m.EventVolatility = evSum / float64(evCount)
	}
	if baseCount > 0 {
		m.BaselineVolatility = baseSum / float64(baseCount)
	}
	return m
}
