package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	drepo "github.com/Rono40230/Analyses-historiques/internal/domain/repository"
	"github.com/Rono40230/Analyses-historiques/pkg/logger"
)

// minSimulationBars keeps one full resolution lookahead after the first
// possible trigger.
const minSimulationBars = 16

// StraddleUseCase glues the candle index to the simulator and the
// parameter service for one trading slot.
type StraddleUseCase struct {
	index   *CandleIndex
	sim     *StraddleSimulator
	params  *StraddleParameterService
	dur     *DurationAnalyzer
	metrics drepo.Metrics
	log     *logger.Logger
}

func NewStraddleUseCase(
	index *CandleIndex,
	sim *StraddleSimulator,
	params *StraddleParameterService,
	dur *DurationAnalyzer,
	metrics drepo.Metrics,
	log *logger.Logger,
) *StraddleUseCase {
	return &StraddleUseCase{
		index:   index,
		sim:     sim,
		params:  params,
		dur:     dur,
		metrics: metrics,
		log:     log,
	}
}

// SimulateHour replays the straddle over the bars of one clock hour on
// one date.
func (uc *StraddleUseCase) SimulateHour(ctx context.Context, symbol string, date time.Time, hour int) (*models.StraddleSimulationResult, error) {
	if _, err := uc.index.LoadPairCandles(ctx, symbol); err != nil {
		return nil, err
	}
	candles, err := uc.index.GetCandlesForHour(symbol, date, hour)
	if err != nil {
		return nil, err
	}
	return uc.simulate(symbol, candles)
}

// SimulateQuarter replays the straddle over every historical bar of one
// quarter-hour slot.
func (uc *StraddleUseCase) SimulateQuarter(ctx context.Context, symbol string, hour, quarter int) (*models.StraddleSimulationResult, error) {
	if _, err := uc.index.LoadPairCandles(ctx, symbol); err != nil {
		return nil, err
	}
	candles, err := uc.index.GetCandlesForQuarter(symbol, hour, quarter)
	if err != nil {
		return nil, err
	}
	return uc.simulate(symbol, candles)
}

func (uc *StraddleUseCase) simulate(symbol string, candles []models.Candle) (*models.StraddleSimulationResult, error) {
	if len(candles) < minSimulationBars {
		return nil, fmt.Errorf("%w: %d candles, need %d", models.ErrInsufficientData, len(candles), minSimulationBars)
	}
	start := time.Now()
	result := uc.sim.Simulate(candles, symbol)
	uc.metrics.RecordAnalysis("straddle_sim", symbol)
	uc.metrics.RecordLatency("straddle_sim", time.Since(start).Seconds())
	return &result, nil
}

// Parameters sizes the straddle for one quarter-hour slot from its
// historical ATR, noise ratio and volatility half-life.
func (uc *StraddleUseCase) Parameters(ctx context.Context, symbol string, hour, quarter int, spreadMargin float64) (*models.StraddleParameters, error) {
	if _, err := uc.index.LoadPairCandles(ctx, symbol); err != nil {
		return nil, err
	}
	candles, err := uc.index.GetCandlesForQuarter(symbol, hour, quarter)
	if err != nil {
		return nil, err
	}
	if len(candles) < 5 {
		return nil, fmt.Errorf("%w: %d candles in slot", models.ErrInsufficientData, len(candles))
	}

	atr := mean(SmoothedTrueRange{}.Series(candles))

	var noiseSum float64
	for _, c := range candles {
		noiseSum += noiseOf(c.BodyPercent())
	}
	noiseRatio := noiseSum / float64(len(candles))

	halfLife := 0
	if vd, err := uc.dur.AnalyzeFromCandles(candles); err == nil {
		halfLife = int(vd.HalfLifeMinutes)
	}

	point := models.AssetPropertiesFromSymbol(symbol).PointValue()
	p := uc.params.CalculateParameters(atr, noiseRatio, point, spreadMargin, halfLife)
	return &p, nil
}
