package models

import "time"

// EventImpactCurve is the averaged volatility profile of one event type on
// one instrument, built from every historical occurrence with enough
// surrounding bars. Timelines are minute-indexed relative to the event.
type EventImpactCurve struct {
	Symbol     string    `json:"symbol"`
	EventName  string    `json:"event_name"`
	EventCount int       `json:"event_count"`
	AvgTime    time.Time `json:"avg_time"`

	// ATRBefore covers the 30 minutes preceding the event, ATRAfter the
	// 90 minutes following it. Values are pips.
	ATRBefore []float64 `json:"atr_before"`
	ATRAfter  []float64 `json:"atr_after"`

	BodyPercentBefore []float64 `json:"body_percent_before"`
	BodyPercentAfter  []float64 `json:"body_percent_after"`

	NoiseBefore float64 `json:"noise_before"`
	NoiseDuring float64 `json:"noise_during"`
	NoiseAfter  float64 `json:"noise_after"`

	VolatilityIncrease float64 `json:"volatility_increase"`

	// Entry guidance derived from the curve shape.
	BestEntryMinutesBefore int     `json:"best_entry_minutes_before"`
	StopLossPips           float64 `json:"stop_loss_pips"`
	TrailingStopPips       float64 `json:"trailing_stop_pips"`
	TimeoutMinutes         int     `json:"timeout_minutes"`
}

// PeakDelayResult locates the volatility peak around an event and grades
// how trustworthy the estimate is.
type PeakDelayResult struct {
	Symbol         string    `json:"symbol"`
	EventTime      time.Time `json:"event_time"`
	PeakTime       time.Time `json:"peak_time"`
	DelayMinutes   int       `json:"delay_minutes"`
	PeakVolatility float64   `json:"peak_volatility"`
	Confidence     float64   `json:"confidence"`
}

// DecayProfileResult describes how fast volatility drains after its peak.
type DecayProfileResult struct {
	Symbol              string  `json:"symbol"`
	DecayRatePipsPerMin float64 `json:"decay_rate_pips_per_min"`
	Profile             string  `json:"profile"`
	RecommendedTimeout  int     `json:"recommended_timeout"`
}

// Decay profile labels.
const (
	DecayFast     = "FAST"
	DecayModerate = "MODERATE"
	DecaySlow     = "SLOW"
)

// VolatilityDuration measures how long elevated volatility persists after
// an event.
type VolatilityDuration struct {
	PeakDurationMinutes int     `json:"peak_duration_minutes"`
	HalfLifeMinutes     float64 `json:"half_life_minutes"`
	PeakATR             float64 `json:"peak_atr"`
}
