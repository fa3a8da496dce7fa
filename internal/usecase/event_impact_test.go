package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

func newCorrelator(t *testing.T, loader *fakeLoader, events *fakeEvents) *EventImpactCorrelator {
	t.Helper()
	index := NewCandleIndex(loader, nopMetrics{}, testLogger(t))
	calc := NewVolatilityWindowCalculator(30*time.Minute, 7)
	return NewEventImpactCorrelator(index, loader, events, calc, nopMetrics{}, testLogger(t))
}

func TestAnalyzeEventImpactReport(t *testing.T) {
	eventTime := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	pairBars := func(baselineRange, eventRange float64) []models.Candle {
		return []models.Candle{
			barAt("", eventTime.AddDate(0, 0, -2), baselineRange),
			barAt("", eventTime.AddDate(0, 0, -1), baselineRange),
			barAt("", eventTime, eventRange),
		}
	}

	// EURUSD multiplier 12, GBPUSD 6, USDCHF has no baseline.
	loader := &fakeLoader{candles: map[string][]models.Candle{
		"EURUSD": pairBars(0.0001, 0.0012),
		"GBPUSD": pairBars(0.0002, 0.0012),
		"USDCHF": {barAt("", eventTime, 0.0012)},
	}}
	events := &fakeEvents{events: []models.CalendarEvent{
		{ID: 7, Currency: "USD", EventTime: eventTime, Impact: models.ImpactHigh, Description: "CPI"},
	}}

	report, err := newCorrelator(t, loader, events).AnalyzeEventImpact(context.Background(), "CPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Country != "United States" || report.Currency != "USD" {
		t.Fatalf("unexpected origin %s/%s", report.Country, report.Currency)
	}
	if report.EventCount != 1 {
		t.Fatalf("unexpected event count %d", report.EventCount)
	}
	if !report.WindowEnd.Equal(eventTime.Add(120 * time.Minute)) {
		t.Fatalf("unexpected window end %v", report.WindowEnd)
	}

	if len(report.PairImpacts) != 3 {
		t.Fatalf("unexpected pair count %d", len(report.PairImpacts))
	}
	got := []string{report.PairImpacts[0].Symbol, report.PairImpacts[1].Symbol, report.PairImpacts[2].Symbol}
	want := []string{"EURUSD", "GBPUSD", "USDCHF"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order %v", got)
		}
	}

	if d := report.PairImpacts[0].Direction; d != models.DirectionBullish {
		t.Fatalf("multiplier 12 should label bullish, got %s", d)
	}
	if d := report.PairImpacts[1].Direction; d != models.DirectionBearish {
		t.Fatalf("multiplier 6 should label bearish, got %s", d)
	}
	if d := report.PairImpacts[2].Direction; d != models.DirectionNeutral {
		t.Fatalf("zero baseline should label neutral, got %s", d)
	}

	if len(report.Observations) != 3 {
		t.Fatalf("unexpected observations %v", report.Observations)
	}
}

func TestAnalyzeEventImpactUnknownEvent(t *testing.T) {
	loader := &fakeLoader{candles: map[string][]models.Candle{}}
	_, err := newCorrelator(t, loader, &fakeEvents{}).AnalyzeEventImpact(context.Background(), "Nope")
	if !errors.Is(err, models.ErrNoData) {
		t.Fatalf("expected no-data error, got %v", err)
	}
}

func TestOrderPairsPriorityFirst(t *testing.T) {
	got := orderPairs([]string{"AAAUSD", "EURUSD", "USDJPY", "ZZZUSD"})
	want := []string{"USDJPY", "EURUSD", "AAAUSD", "ZZZUSD"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order %v", got)
		}
	}
}

func TestSortByMultiplierDesc(t *testing.T) {
	impacts := []models.PairImpactDetail{
		{Symbol: "A", Multiplier: 2},
		{Symbol: "C", Multiplier: 5},
		{Symbol: "E", Multiplier: 1},
	}
	sortByMultiplierDesc(impacts)
	want := []string{"C", "A", "E"}
	for i := range want {
		if impacts[i].Symbol != want[i] {
			t.Fatalf("unexpected order %v", impacts)
		}
	}
}

// NaN multipliers compare equal; the sort must neither panic nor drop
// entries.
func TestSortByMultiplierDescNaNSafe(t *testing.T) {
	impacts := []models.PairImpactDetail{
		{Symbol: "A", Multiplier: 2},
		{Symbol: "B", Multiplier: math.NaN()},
		{Symbol: "C", Multiplier: 5},
		{Symbol: "D", Multiplier: math.NaN()},
		{Symbol: "E", Multiplier: 1},
	}
	sortByMultiplierDesc(impacts)

	seen := map[string]bool{}
	for _, p := range impacts {
		seen[p.Symbol] = true
	}
	if len(seen) != 5 {
		t.Fatalf("sort lost elements: %v", impacts)
	}
}
