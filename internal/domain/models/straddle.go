package models

// StraddleParameters is the recommended pending-order configuration for
// trading one event on one instrument. All distances are in pips.
type StraddleParameters struct {
	OffsetPips       float64 `json:"offset_pips"`
	StopLossPips     float64 `json:"stop_loss_pips"`
	TrailingStopPips float64 `json:"trailing_stop_pips"`
	TimeoutMinutes   int     `json:"timeout_minutes"`
	SLRecoveryPips   float64 `json:"sl_recovery_pips"`
	RiskReward       float64 `json:"risk_reward"`
	SpreadSafetyPips float64 `json:"spread_safety_pips"`
}

// StraddleSimulationResult summarizes a replay of the straddle entry rules
// over historical event windows.
type StraddleSimulationResult struct {
	TotalTrades      int             `json:"total_trades"`
	Wins             int             `json:"wins"`
	Losses           int             `json:"losses"`
	Whipsaws         int             `json:"whipsaws"`
	WinRate          float64         `json:"win_rate"`
	WhipsawFrequency float64         `json:"whipsaw_frequency"`
	OffsetPips       float64         `json:"offset_pips"`
	P95WickPips      float64         `json:"p95_wick_pips"`
	RiskLevel        string          `json:"risk_level"`
	RiskColor        string          `json:"risk_color"`
	Adjusted         AdjustedMetrics `json:"adjusted"`
}

// AdjustedMetrics rescales the raw simulation output by the observed
// whipsaw frequency so the recommended parameters price in false triggers.
type AdjustedMetrics struct {
	AdjustedWinRate      float64 `json:"adjusted_win_rate"`
	AdjustedStopLoss     float64 `json:"adjusted_stop_loss"`
	AdjustedTrailingStop float64 `json:"adjusted_trailing_stop"`
	AdjustedTimeout      int     `json:"adjusted_timeout"`
}

// AdjustForWhipsaw derives the whipsaw-discounted metrics from a
// simulation. freq is a percentage in [0,100].
func (r StraddleSimulationResult) AdjustForWhipsaw() AdjustedMetrics {
	wf := r.WhipsawFrequency / 100
	timeout := int(32 * (1 - wf*0.5))
	if timeout < 18 {
		timeout = 18
	}
	return AdjustedMetrics{
		AdjustedWinRate:      r.WinRate * (1 - wf),
		AdjustedStopLoss:     r.OffsetPips * (1 + wf*0.3),
		AdjustedTrailingStop: 1.59 * (1 - wf/2),
		AdjustedTimeout:      timeout,
	}
}
