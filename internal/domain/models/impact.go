package models

import "time"

// VolatilityMetrics is the (event window, baseline window) volatility pair
// for one instrument around one event instant. Both values are pip-scaled
// means and are 0.0 (never NaN) when their window matched no candles.
type VolatilityMetrics struct {
	EventVolatility    float64 `json:"event_volatility"`
	BaselineVolatility float64 `json:"baseline_volatility"`
}

// Multiplier returns event/baseline, or 0.0 when the baseline is empty.
func (m VolatilityMetrics) Multiplier() float64 {
	if m.BaselineVolatility == 0 {
		return 0
	}
	return m.EventVolatility / m.BaselineVolatility
}

// Direction labels for a pair impact. The thresholds are magnitude
// heuristics carried over from the reference data; they do not encode a
// calibrated directional model.
const (
	DirectionBullish = "BULLISH"
	DirectionBearish = "BEARISH"
	DirectionNeutral = "NEUTRAL"
)

// PairImpactDetail is the per-instrument row of an event impact report.
type PairImpactDetail struct {
	Symbol             string  `json:"symbol"`
	EventVolatility    float64 `json:"event_volatility"`
	BaselineVolatility float64 `json:"baseline_volatility"`
	Points             float64 `json:"points"`
	Price              float64 `json:"price"`
	Multiplier         float64 `json:"multiplier"`
	Direction          string  `json:"direction"`
}

// EventImpactReport ranks the impact of one event type across all known
// instruments, with narrative observations.
type EventImpactReport struct {
	EventID      int64              `json:"event_id"`
	EventName    string             `json:"event_name"`
	FirstSeen    time.Time          `json:"first_seen"`
	LastSeen     time.Time          `json:"last_seen"`
	Country      string             `json:"country"`
	Currency     string             `json:"currency"`
	Impact       Impact             `json:"impact"`
	EventCount   int                `json:"event_count"`
	WindowStart  time.Time          `json:"window_start"`
	WindowEnd    time.Time          `json:"window_end"`
	PairImpacts  []PairImpactDetail `json:"pair_impacts"`
	Observations []string           `json:"observations"`
}
