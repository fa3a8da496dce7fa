package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

// eventWindowSeries covers one occurrence, 30 minutes before to 90 after,
// with quiet bars before the event and wide bars from T0 on.
func eventWindowSeries(symbol string, eventTime time.Time, quiet, loud float64) []models.Candle {
	out := make([]models.Candle, 0, 121)
	for m := -30; m <= 90; m++ {
		rng := quiet
		if m >= 0 {
			rng = loud
		}
		out = append(out, barAt(symbol, eventTime.Add(time.Duration(m)*time.Minute), rng))
	}
	return out
}

func newRetroAnalyzer(t *testing.T, loader *fakeLoader, events *fakeEvents) *RetrospectiveAnalyzer {
	t.Helper()
	index := NewCandleIndex(loader, nopMetrics{}, testLogger(t))
	return NewRetrospectiveAnalyzer(index, events, nopMetrics{}, testLogger(t))
}

func TestComputeEventImpactCurves(t *testing.T) {
	ev1 := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	ev2 := time.Date(2024, 3, 12, 14, 30, 0, 0, time.UTC)

	candles := append(
		eventWindowSeries("EURUSD", ev1, 0.0010, 0.0030),
		eventWindowSeries("EURUSD", ev2, 0.0010, 0.0030)...)

	loader := &fakeLoader{candles: map[string][]models.Candle{"EURUSD": candles}}
	events := &fakeEvents{events: []models.CalendarEvent{
		{ID: 1, Currency: "USD", EventTime: ev1, Impact: models.ImpactHigh, Description: "Non-Farm Payrolls"},
		{ID: 2, Currency: "USD", EventTime: ev2, Impact: models.ImpactHigh, Description: "Non-Farm Payrolls"},
	}}

	curve, err := newRetroAnalyzer(t, loader, events).ComputeEventImpact(context.Background(), "EURUSD", "Non-Farm Payrolls")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if curve.EventCount != 2 {
		t.Fatalf("unexpected event count %d", curve.EventCount)
	}
	if len(curve.ATRBefore) != 30 || len(curve.ATRAfter) != 90 {
		t.Fatalf("unexpected timeline lengths %d/%d", len(curve.ATRBefore), len(curve.ATRAfter))
	}
	// Quiet bars run 10 pips, loud bars 30.
	if curve.ATRBefore[0] < 9.9 || curve.ATRBefore[0] > 10.1 {
		t.Fatalf("unexpected pre-event ATR %v", curve.ATRBefore[0])
	}
	if curve.ATRAfter[0] < 29.9 || curve.ATRAfter[0] > 30.1 {
		t.Fatalf("unexpected post-event ATR %v", curve.ATRAfter[0])
	}
	// (30 - 10) / 10
	if curve.VolatilityIncrease < 199 || curve.VolatilityIncrease > 201 {
		t.Fatalf("unexpected volatility increase %v", curve.VolatilityIncrease)
	}
	// Doji bars count a noise ratio of 1.0 everywhere.
	if curve.NoiseDuring != 1.0 {
		t.Fatalf("unexpected noise during %v", curve.NoiseDuring)
	}
	// Overall ATR mean is 25 pips, clean slot ratio 1.5, ceil(37.5).
	if curve.StopLossPips != 38 {
		t.Fatalf("unexpected stop loss %v", curve.StopLossPips)
	}
	// Volatility never falls below 70% of its flat peak; a 200% surge
	// forces the fast exit.
	if curve.TimeoutMinutes != 35 {
		t.Fatalf("unexpected timeout %d", curve.TimeoutMinutes)
	}
	wantAvg := time.Unix((ev1.Unix()+ev2.Unix())/2, 0).UTC()
	if !curve.AvgTime.Equal(wantAvg) {
		t.Fatalf("unexpected avg time %v", curve.AvgTime)
	}
}

func TestComputeEventImpactSkipsShortOccurrences(t *testing.T) {
	ev1 := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	ev2 := time.Date(2024, 3, 12, 14, 30, 0, 0, time.UTC)

	// Only the first occurrence has full coverage; the second has a
	// handful of bars and must not contribute to the curves.
	candles := append(
		eventWindowSeries("EURUSD", ev1, 0.0010, 0.0030),
		minuteSeries("EURUSD", ev2, 10)...)

	loader := &fakeLoader{candles: map[string][]models.Candle{"EURUSD": candles}}
	events := &fakeEvents{events: []models.CalendarEvent{
		{ID: 1, Currency: "USD", EventTime: ev1, Impact: models.ImpactHigh, Description: "CPI"},
		{ID: 2, Currency: "USD", EventTime: ev2, Impact: models.ImpactHigh, Description: "CPI"},
	}}

	curve, err := newRetroAnalyzer(t, loader, events).ComputeEventImpact(context.Background(), "EURUSD", "CPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if curve.ATRBefore[0] < 9.9 || curve.ATRBefore[0] > 10.1 {
		t.Fatalf("short occurrence leaked into the curve: %v", curve.ATRBefore[0])
	}
}

func TestComputeEventImpactUnknownEvent(t *testing.T) {
	loader := &fakeLoader{candles: map[string][]models.Candle{}}
	_, err := newRetroAnalyzer(t, loader, &fakeEvents{}).ComputeEventImpact(context.Background(), "EURUSD", "Nope")
	if !errors.Is(err, models.ErrNoData) {
		t.Fatalf("expected no-data error, got %v", err)
	}
}

func TestComputePeakDelay(t *testing.T) {
	eventTime := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	var candles []models.Candle
	for m := -120; m <= 120; m++ {
		rng := 0.0005
		if m == 7 {
			rng = 0.0080 // peak 7 minutes after the event
		}
		candles = append(candles, barAt("EURUSD", eventTime.Add(time.Duration(m)*time.Minute), rng))
	}
	loader := &fakeLoader{candles: map[string][]models.Candle{"EURUSD": candles}}

	pd, err := newRetroAnalyzer(t, loader, &fakeEvents{}).ComputePeakDelay(context.Background(), "EURUSD", eventTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.DelayMinutes != 7 {
		t.Fatalf("unexpected delay %d", pd.DelayMinutes)
	}
	// 80 pips peak scores the highest confidence bucket.
	if pd.Confidence != 0.95 {
		t.Fatalf("unexpected confidence %v", pd.Confidence)
	}
}

func TestComputeDecayProfile(t *testing.T) {
	eventTime := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	var candles []models.Candle
	for m := -60; m <= 180; m++ {
		rng := 0.0005
		if m == 0 {
			rng = 0.0100
		}
		candles = append(candles, barAt("EURUSD", eventTime.Add(time.Duration(m)*time.Minute), rng))
	}
	loader := &fakeLoader{candles: map[string][]models.Candle{"EURUSD": candles}}

	dp, err := newRetroAnalyzer(t, loader, &fakeEvents{}).ComputeDecayProfile(context.Background(), "EURUSD", eventTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dp.DecayRatePipsPerMin <= 0 {
		t.Fatalf("unexpected decay rate %v", dp.DecayRatePipsPerMin)
	}
	if dp.Profile == "" || dp.RecommendedTimeout == 0 {
		t.Fatalf("incomplete profile %+v", dp)
	}
}
