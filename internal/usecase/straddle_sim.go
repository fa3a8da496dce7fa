package usecase

import (
	"math"
	"sort"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

// StraddleSimulator replays a dual pending-order entry over a candle
// slice. The entry offset is derived from the wick distribution of the
// slice itself, and whipsaws are weighted by how fast they hit.
type StraddleSimulator struct{}

func NewStraddleSimulator() *StraddleSimulator { return &StraddleSimulator{} }

const resolutionLookahead = 15 // bars scanned for TP/SL after a trigger

// Simulate runs the straddle over candles of one symbol. An empty slice
// yields a zeroed result with risk "N/A".
func (s *StraddleSimulator) Simulate(candles []models.Candle, symbol string) models.StraddleSimulationResult {
	if len(candles) == 0 {
		return models.StraddleSimulationResult{RiskLevel: "N/A", RiskColor: "#6b7280"}
	}

	p95Wick := p95WickOffset(candles)
	offset := p95Wick * 1.1
	offsetPips := models.NormalizeToPips(offset, symbol)

	tpDistance := offset * 2
	slDistance := offset

	var totalTrades, wins, losses, whipsaws int
	var whipsawWeightSum float64

	for i, c := range candles {
		buyStop := c.Open + offset
		sellStop := c.Open - offset

		var triggered, isWin, isWhipsaw bool
		var whipsawMinutes int

		// The buy leg is checked first; an M1 bar cannot tell which side
		// printed first, so ties go to the buy stop.
		if c.High >= buyStop {
			triggered = true
			isWin, isWhipsaw, whipsawMinutes = resolveTrade(candles, i, buyStop+tpDistance, buyStop-slDistance, true)
		} else if c.Low <= sellStop {
			triggered = true
			isWin, isWhipsaw, whipsawMinutes = resolveTrade(candles, i, sellStop-tpDistance, sellStop+slDistance, false)
		}

		if !triggered {
			continue
		}
		totalTrades++
		if isWin {
			wins++
			continue
		}
		losses++
		if isWhipsaw {
			whipsaws++
			whipsawWeightSum += whipsawCoefficient(whipsawMinutes)
		}
	}

	var winRate, whipsawFreq float64
	if totalTrades > 0 {
		winRate = float64(wins) / float64(totalTrades) * 100
		whipsawFreq = whipsawWeightSum / float64(totalTrades) * 100
	}

	level, color := riskLevel(whipsawFreq)

	result := models.StraddleSimulationResult{
		TotalTrades:      totalTrades,
		Wins:             wins,
		Losses:           losses,
		Whipsaws:         whipsaws,
		WinRate:          winRate,
		WhipsawFrequency: whipsawFreq,
		OffsetPips:       offsetPips,
		P95WickPips:      models.NormalizeToPips(p95Wick, symbol),
		RiskLevel:        level,
		RiskColor:        color,
	}
	result.Adjusted = result.AdjustForWhipsaw()
	return result
}

// p95WickOffset collects every positive wick of the slice and returns its
// 95th percentile.
func p95WickOffset(candles []models.Candle) float64 {
	var wicks []float64
	for _, c := range candles {
		if w := c.UpperWick(); w > 0 {
			wicks = append(wicks, w)
		}
		if w := c.LowerWick(); w > 0 {
			wicks = append(wicks, w)
		}
	}
	sort.Float64s(wicks)
	idx := int(math.Ceil(float64(len(wicks)) * 0.95))
	if len(wicks) == 0 || idx >= len(wicks) {
		return 0
	}
	return wicks[idx]
}

// resolveTrade scans the bars after the trigger for TP or SL. A stop hit
// is a whipsaw tagged with the minutes elapsed since entry; running out
// of lookahead is a plain loss.
func resolveTrade(candles []models.Candle, startIdx int, tp, sl float64, isBuy bool) (isWin, isWhipsaw bool, minutes int) {
	entryTime := candles[startIdx].Timestamp
	end := startIdx + resolutionLookahead
	if end > len(candles) {
		end = len(candles)
	}
	for i := startIdx + 1; i < end; i++ {
		c := candles[i]
		elapsed := int(c.Timestamp.Sub(entryTime).Minutes())
		if isBuy {
			if c.High >= tp {
				return true, false, 0
			}
			if c.Low <= sl {
				return false, true, elapsed
			}
		} else {
			if c.Low <= tp {
				return true, false, 0
			}
			if c.High >= sl {
				return false, true, elapsed
			}
		}
	}
	return false, false, resolutionLookahead
}

// whipsawCoefficient weights a whipsaw by immediacy. An instant reversal
// is the worst case; a late one barely counts.
func whipsawCoefficient(minutes int) float64 {
	switch {
	case minutes <= 0:
		return 1.0
	case minutes <= 2:
		return 0.8
	case minutes <= 5:
		return 0.6
	case minutes <= 10:
		return 0.3
	default:
		return 0.1
	}
}

func riskLevel(whipsawFreq float64) (string, string) {
	switch {
	case whipsawFreq < 10:
		return "Low", "#22c55e"
	case whipsawFreq < 20:
		return "Medium", "#eab308"
	case whipsawFreq < 30:
		return "High", "#f97316"
	default:
		return "Critical", "#ef4444"
	}
}
