package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	drepo "github.com/Rono40230/Analyses-historiques/internal/domain/repository"
	"github.com/Rono40230/Analyses-historiques/pkg/logger"
)

const (
	retroBeforeMinutes = 30
	retroAfterMinutes  = 90
	retroMinBars       = 120
)

// RetrospectiveAnalyzer replays every historical occurrence of an event
// on one instrument and averages the minute-by-minute volatility response
// into a single comparable curve.
type RetrospectiveAnalyzer struct {
	index   *CandleIndex
	events  drepo.EventSource
	tr      TrueRangeStrategy
	metrics drepo.Metrics
	log     *logger.Logger
}

func NewRetrospectiveAnalyzer(
	index *CandleIndex,
	events drepo.EventSource,
	metrics drepo.Metrics,
	log *logger.Logger,
) *RetrospectiveAnalyzer {
	return &RetrospectiveAnalyzer{
		index:   index,
		events:  events,
		tr:      InstantTrueRange{},
		metrics: metrics,
		log:     log,
	}
}

// ComputeEventImpact averages ATR and body percentage curves over every
// occurrence of eventType, 30 minutes before to 90 minutes after.
// Occurrences with fewer than 120 surrounding bars are skipped.
func (ra *RetrospectiveAnalyzer) ComputeEventImpact(ctx context.Context, pair, eventType string) (*models.EventImpactCurve, error) {
	start := time.Now()

	events, err := ra.events.EventsByDescription(ctx, eventType)
	if err != nil {
		return nil, fmt.Errorf("load events %q: %w", eventType, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no events named %q", models.ErrNoData, eventType)
	}
	if _, err := ra.index.LoadPairCandles(ctx, pair); err != nil {
		return nil, err
	}

	atrBeforeSum := make([]float64, retroBeforeMinutes)
	atrAfterSum := make([]float64, retroAfterMinutes)
	bodyBeforeSum := make([]float64, retroBeforeMinutes)
	bodyAfterSum := make([]float64, retroAfterMinutes)
	countsBefore := make([]int, retroBeforeMinutes)
	countsAfter := make([]int, retroAfterMinutes)
	var noiseBeforeSum, noiseDuringSum, noiseAfterSum float64
	var tsSum int64
	eventCount := 0

	for _, ev := range events {
		eventCount++
		tsSum += ev.EventTime.Unix()

		candles, err := ra.index.GetCandles(pair,
			ev.EventTime.Add(-retroBeforeMinutes*time.Minute),
			ev.EventTime.Add(retroAfterMinutes*time.Minute))
		if err != nil {
			return nil, err
		}
		if len(candles) < retroMinBars {
			continue
		}

		atrs := ra.tr.Series(candles)
		for i := range atrs {
			atrs[i] = models.NormalizeToPips(atrs[i], pair)
		}
		bodies := make([]float64, len(candles))
		for i, c := range candles {
			bodies[i] = c.BodyPercent()
		}

		// The event sits 30 bars into the window.
		eventIndex := retroBeforeMinutes

		for i := 0; i < eventIndex && i < len(atrs); i++ {
			atrBeforeSum[i] += atrs[i]
			bodyBeforeSum[i] += bodies[i]
			countsBefore[i]++
			noiseBeforeSum += noiseOf(bodies[i])
		}
		for i := eventIndex; i < len(atrs) && i < eventIndex+retroAfterMinutes; i++ {
			idx := i - eventIndex
			atrAfterSum[idx] += atrs[i]
			bodyAfterSum[idx] += bodies[i]
			countsAfter[idx]++
		}
		if eventIndex < len(atrs) {
			noiseDuringSum += noiseOf(bodies[eventIndex])
		}
		for i := eventIndex + 1; i < len(atrs) && i < eventIndex+retroAfterMinutes; i++ {
			noiseAfterSum += noiseOf(bodies[i])
		}
	}

	atrBefore := averageTimeline(atrBeforeSum, countsBefore)
	atrAfter := averageTimeline(atrAfterSum, countsAfter)
	bodyBefore := averageTimeline(bodyBeforeSum, countsBefore)
	bodyAfter := averageTimeline(bodyAfterSum, countsAfter)

	noiseBefore := noiseBeforeSum / (float64(eventCount) * retroBeforeMinutes)
	noiseDuring := noiseDuringSum / float64(eventCount)
	noiseAfter := noiseAfterSum / (float64(eventCount) * (retroAfterMinutes - 1))

	atrMeanBefore := mean(atrBefore)
	atrMeanAfter := mean(atrAfter)
	volIncrease := 0.0
	if atrMeanBefore > 0 {
		volIncrease = (atrMeanAfter - atrMeanBefore) / atrMeanBefore * 100
	}

	bestMoment, stopLoss, trailingStop, timeout := bidiParameters(atrBefore, atrAfter, noiseDuring, volIncrease)

	curve := &models.EventImpactCurve{
		Symbol:                 pair,
		EventName:              eventType,
		EventCount:             eventCount,
		AvgTime:                time.Unix(tsSum/int64(eventCount), 0).UTC(),
		ATRBefore:              atrBefore,
		ATRAfter:               atrAfter,
		BodyPercentBefore:      bodyBefore,
		BodyPercentAfter:       bodyAfter,
		NoiseBefore:            noiseBefore,
		NoiseDuring:            noiseDuring,
		NoiseAfter:             noiseAfter,
		VolatilityIncrease:     volIncrease,
		BestEntryMinutesBefore: bestMoment,
		StopLossPips:           stopLoss,
		TrailingStopPips:       trailingStop,
		TimeoutMinutes:         timeout,
	}

	ra.metrics.RecordAnalysis("retro_impact", pair)
	ra.metrics.RecordLatency("retro_impact", time.Since(start).Seconds())
	return curve, nil
}

// noiseOf is the per-bar noise ratio, range over body. A doji counts 1.0.
func noiseOf(bodyPct float64) float64 {
	if bodyPct > 0 {
		return 100 / bodyPct
	}
	return 1.0
}

func averageTimeline(sums []float64, counts []int) []float64 {
	out := make([]float64, len(sums))
	for i := range sums {
		if counts[i] > 0 {
			out[i] = sums[i] / float64(counts[i])
		}
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// bidiParameters derives the four entry parameters from the averaged
// curves: the best pre-event entry minute, a noise-scaled stop loss, a
// trailing stop and a decay-based timeout.
func bidiParameters(atrBefore, atrAfter []float64, noiseDuring, volIncrease float64) (int, float64, float64, int) {
	// Best entry: volatility peak within the last 5 minutes before T0.
	bestMoment := 0
	if len(atrBefore) == retroBeforeMinutes {
		peakIdx := 25
		for i := 25; i < retroBeforeMinutes; i++ {
			if atrBefore[i] > atrBefore[peakIdx] {
				peakIdx = i
			}
		}
		bestMoment = retroBeforeMinutes - 1 - peakIdx
	}

	atrMean := (sum(atrBefore) + sum(atrAfter)) / float64(len(atrBefore)+len(atrAfter))
	stopLoss := math.Ceil(atrMean * stopLossRatio(noiseDuring))

	noiseFactor := math.Min(noiseDuring/3.0, 1.0)
	trailingStop := atrMean * 0.75 * (1 - noiseFactor/2)

	// Timeout: first minute where post-event volatility falls to 70% of
	// its peak, capped at 60.
	timeout := 60
	peakAfter := maxOf(atrAfter)
	if peakAfter > 0 {
		threshold := peakAfter * 0.7
		for i, v := range atrAfter {
			if i > 0 && v <= threshold {
				if i < 60 {
					timeout = i
				}
				break
			}
		}
		if timeout == 60 && volIncrease > 50 {
			timeout = 35
		} else if timeout == 60 && volIncrease < 10 {
			timeout = 50
		}
	}

	return bestMoment, stopLoss, trailingStop, timeout
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func maxOf(values []float64) float64 {
	peak := math.Inf(-1)
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// ComputePeakDelay locates the volatility peak in the two hours around
// one event occurrence.
func (ra *RetrospectiveAnalyzer) ComputePeakDelay(ctx context.Context, pair string, eventTime time.Time) (*models.PeakDelayResult, error) {
	if _, err := ra.index.LoadPairCandles(ctx, pair); err != nil {
		return nil, err
	}
	candles, err := ra.index.GetCandles(pair, eventTime.Add(-2*time.Hour), eventTime.Add(2*time.Hour))
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s around %s", models.ErrNoData, pair, eventTime.Format(time.RFC3339))
	}

	atrs := ra.tr.Series(candles)
	for i := range atrs {
		atrs[i] = models.NormalizeToPips(atrs[i], pair)
	}
	peak, peakIdx := seriesPeak(atrs)

	confidence := 0.5
	switch {
	case peak > 1.0:
		confidence = 0.95
	case peak > 0.5:
		confidence = 0.75
	}

	peakTime := candles[peakIdx].Timestamp
	return &models.PeakDelayResult{
		Symbol:         pair,
		EventTime:      eventTime,
		PeakTime:       peakTime,
		DelayMinutes:   int(peakTime.Sub(eventTime).Minutes()),
		PeakVolatility: peak,
		Confidence:     confidence,
	}, nil
}

// ComputeDecayProfile measures how fast volatility drains after its peak
// in the hour before to three hours after one event occurrence.
func (ra *RetrospectiveAnalyzer) ComputeDecayProfile(ctx context.Context, pair string, eventTime time.Time) (*models.DecayProfileResult, error) {
	if _, err := ra.index.LoadPairCandles(ctx, pair); err != nil {
		return nil, err
	}
	candles, err := ra.index.GetCandles(pair, eventTime.Add(-1*time.Hour), eventTime.Add(3*time.Hour))
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s around %s", models.ErrNoData, pair, eventTime.Format(time.RFC3339))
	}

	atrs := ra.tr.Series(candles)
	for i := range atrs {
		atrs[i] = models.NormalizeToPips(atrs[i], pair)
	}
	peak, peakIdx := seriesPeak(atrs)

	rate := 0.0
	if remaining := len(atrs) - 1 - peakIdx; remaining > 0 {
		rate = (peak - atrs[len(atrs)-1]) / float64(remaining)
	}

	profile := models.DecaySlow
	timeout := 32
	switch {
	case rate > 3.0:
		profile, timeout = models.DecayFast, 18
	case rate > 1.5:
		profile, timeout = models.DecayModerate, 25
	}

	return &models.DecayProfileResult{
		Symbol:              pair,
		DecayRatePipsPerMin: rate,
		Profile:             profile,
		RecommendedTimeout:  timeout,
	}, nil
}
