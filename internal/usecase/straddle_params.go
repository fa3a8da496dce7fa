package usecase

import (
	"math"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

// DefaultSpreadSafetyPips pads the entry offset against spread widening
// around releases.
const DefaultSpreadSafetyPips = 3.0

// StraddleParameterService derives pending-order distances from observed
// volatility. One formula set serves both the raw volatility view and the
// correlation view so the two screens never disagree.
type StraddleParameterService struct{}

func NewStraddleParameterService() *StraddleParameterService { return &StraddleParameterService{} }

// CalculateParameters sizes the straddle for the given ATR (price units),
// noise ratio and platform point value. spreadMargin <= 0 selects the
// default safety margin; halfLife <= 0 selects the default 3 minute
// timeout.
func (s *StraddleParameterService) CalculateParameters(atr, noiseRatio, pointValue float64, spreadMargin float64, halfLifeMinutes int) models.StraddleParameters {
	spreadSafety := spreadMargin
	if spreadSafety <= 0 {
		spreadSafety = DefaultSpreadSafetyPips
	}

	// Noisy slots need a wider entry to dodge the wicks.
	offsetMultiplier := 1.2
	if noiseRatio > 2.0 {
		offsetMultiplier = 1.5
	}
	offsetPips := math.Ceil(atr*offsetMultiplier/pointValue) + spreadSafety

	stopLossPips := math.Ceil(atr * stopLossRatio(noiseRatio) / pointValue)

	tsRatio := 0.6
	switch {
	case noiseRatio > 3.0:
		tsRatio = 1.2
	case noiseRatio > 2.0:
		tsRatio = 1.0
	case noiseRatio > 1.5:
		tsRatio = 0.8
	}
	trailingStopPips := math.Ceil(atr * tsRatio / pointValue)

	// The recovery stop must survive a full sweep to the opposite leg.
	slRecoveryPips := math.Ceil(math.Max(stopLossPips, offsetPips*3))

	timeout := 3
	if halfLifeMinutes > 0 {
		timeout = halfLifeMinutes
		if timeout < 1 {
			timeout = 1
		}
		if timeout > 15 {
			timeout = 15
		}
	}

	riskReward := 0.0
	if stopLossPips > 0 {
		riskReward = (atr / pointValue) / stopLossPips
	}

	return models.StraddleParameters{
		OffsetPips:       offsetPips,
		StopLossPips:     stopLossPips,
		TrailingStopPips: trailingStopPips,
		TimeoutMinutes:   timeout,
		SLRecoveryPips:   slRecoveryPips,
		RiskReward:       riskReward,
		SpreadSafetyPips: spreadSafety,
	}
}

// stopLossRatio widens the stop as the slot gets choppier.
func stopLossRatio(noiseRatio float64) float64 {
	switch {
	case noiseRatio > 3.0:
		return 3.0
	case noiseRatio > 2.5:
		return 2.5
	case noiseRatio > 2.0:
		return 2.0
	case noiseRatio > 1.5:
		return 1.75
	default:
		return 1.5
	}
}
