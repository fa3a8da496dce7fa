package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	drepo "github.com/Rono40230/Analyses-historiques/internal/domain/repository"
	"github.com/Rono40230/Analyses-historiques/pkg/logger"
)

// priorityPairs lead the report ordering; everything else follows in the
// order the store returns it.
var priorityPairs = []string{
	"USDJPY", "GBPJPY", "BTCUSD", "ETHUSD", "EURUSD", "GBPUSD",
	"USDCAD", "USDCHF", "CADJPY", "CHFJPY", "XAUUSD", "XAGUSD",
	"LTCCHF", "TRXUSD", "LNKUSD", "UNIUSD", "EURZAR", "NZDMXN",
}

// EventImpactCorrelator ranks how one event type moves every known
// instrument against its habitual volatility.
type EventImpactCorrelator struct {
	index   *CandleIndex
	loader  drepo.CandleLoader
	events  drepo.EventSource
	calc    *VolatilityWindowCalculator
	metrics drepo.Metrics
	log     *logger.Logger

	// Direction label thresholds on the volatility multiplier.
	BullishThreshold float64
	BearishThreshold float64
}

func NewEventImpactCorrelator(
	index *CandleIndex,
	loader drepo.CandleLoader,
	events drepo.EventSource,
	calc *VolatilityWindowCalculator,
	metrics drepo.Metrics,
	log *logger.Logger,
) *EventImpactCorrelator {
	return &EventImpactCorrelator{
		index:            index,
		loader:           loader,
		events:           events,
		calc:             calc,
		metrics:          metrics,
		log:              log,
		BullishThreshold: 10.0,
		BearishThreshold: 5.0,
	}
}

// AnalyzeEventImpact builds the cross-pair impact report for one event
// description.
func (ec *EventImpactCorrelator) AnalyzeEventImpact(ctx context.Context, eventType string) (*models.EventImpactReport, error) {
	start := time.Now()

	events, err := ec.events.EventsByDescription(ctx, eventType)
	if err != nil {
		ec.metrics.RecordError("event_impact")
		return nil, fmt.Errorf("load events %q: %w", eventType, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no events named %q", models.ErrNoData, eventType)
	}

	first := events[0]
	last := events[len(events)-1]

	symbols, err := ec.loader.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	pairs := orderPairs(symbols)

	impacts := make([]models.PairImpactDetail, 0, len(pairs))
	for _, pair := range pairs {
		if _, err := ec.index.LoadPairCandles(ctx, pair); err != nil {
			ec.log.Warn("skipping pair", logger.String("symbol", pair), logger.Error(err))
			continue
		}
		candles, err := ec.index.GetCandles(pair,
			first.EventTime.AddDate(0, 0, -ec.calc.BaselineDays),
			first.EventTime.Add(ec.calc.EventWindow))
		if err != nil {
			continue
		}

		m := ec.calc.Compute(candles, first.EventTime)
		impacts = append(impacts, ec.pairImpact(pair, m))
	}

	sortByMultiplierDesc(impacts)

	report := &models.EventImpactReport{
		EventID:      first.ID,
		EventName:    eventType,
		FirstSeen:    first.EventTime,
		LastSeen:     last.EventTime,
		Country:      models.CurrencyToCountry(first.Currency),
		Currency:     first.Currency,
		Impact:       first.Impact,
		EventCount:   len(events),
		WindowStart:  first.EventTime,
		WindowEnd:    first.EventTime.Add(120 * time.Minute),
		PairImpacts:  impacts,
		Observations: buildObservations(impacts),
	}

	ec.metrics.RecordAnalysis("event_impact", eventType)
	ec.metrics.RecordLatency("event_impact", time.Since(start).Seconds())
	return report, nil
}

func (ec *EventImpactCorrelator) pairImpact(pair string, m models.VolatilityMetrics) models.PairImpactDetail {
	multiplier := m.Multiplier()

	direction := models.DirectionNeutral
	switch {
	case multiplier > ec.BullishThreshold:
		direction = models.DirectionBullish
	case multiplier > ec.BearishThreshold:
		direction = models.DirectionBearish
	}

	points := m.EventVolatility / 10
	price := points * models.PipValueForSymbol(pair)

	return models.PairImpactDetail{
		Symbol:             pair,
		EventVolatility:    m.EventVolatility,
		BaselineVolatility: m.BaselineVolatility,
		Points:             points,
		Price:              price,
		Multiplier:         multiplier,
		Direction:          direction,
	}
}

// orderPairs puts the priority pairs first, then the rest as listed.
func orderPairs(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		seen[s] = true
	}
	out := make([]string, 0, len(symbols))
	taken := make(map[string]bool, len(symbols))
	for _, p := range priorityPairs {
		if seen[p] {
			out = append(out, p)
			taken[p] = true
		}
	}
	for _, s := range symbols {
		if !taken[s] {
			out = append(out, s)
		}
	}
	return out
}

// sortByMultiplierDesc orders impacts by multiplier descending. NaN
// multipliers compare equal so they never panic the sort.
func sortByMultiplierDesc(impacts []models.PairImpactDetail) {
	sort.SliceStable(impacts, func(i, j int) bool {
		a, b := impacts[i].Multiplier, impacts[j].Multiplier
		if math.IsNaN(a) || math.IsNaN(b) {
			return false
		}
		return a > b
	})
}

func buildObservations(impacts []models.PairImpactDetail) []string {
	var obs []string
	if len(impacts) == 0 {
		return obs
	}

	top := impacts[0]
	obs = append(obs, fmt.Sprintf(
		"%s recorded the strongest impact with %.0f pips, %.1fx its normal volatility",
		top.Symbol, top.EventVolatility, top.Multiplier))

	biggest := impacts[0]
	for _, p := range impacts[1:] {
		if p.EventVolatility > biggest.EventVolatility {
			biggest = p
		}
	}
	obs = append(obs, fmt.Sprintf(
		"Largest swing observed: %s with %.1f pips of event volatility",
		biggest.Symbol, biggest.EventVolatility))

	var count int
	var multSum float64
	for _, p := range impacts {
		if p.Multiplier > 5.0 {
			count++
			multSum += p.Multiplier
		}
	}
	if count > 0 {
		obs = append(obs, fmt.Sprintf(
			"Warning: %d pairs showed excessive volatility (multiplier >5x, avg %.1fx). Such outsized reactions are best avoided in regular trading",
			count, multSum/float64(count)))
	}
	return obs
}
