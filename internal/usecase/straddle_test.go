package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
)

func newStraddleUC(t *testing.T, loader *fakeLoader) *StraddleUseCase {
	t.Helper()
	index := NewCandleIndex(loader, nopMetrics{}, testLogger(t))
	return NewStraddleUseCase(index, NewStraddleSimulator(), NewStraddleParameterService(),
		NewDurationAnalyzer(), nopMetrics{}, testLogger(t))
}

func TestSimulateHourInsufficientData(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	loader := &fakeLoader{candles: map[string][]models.Candle{
		"EURUSD": minuteSeries("EURUSD", start, 10),
	}}
	uc := newStraddleUC(t, loader)

	_, err := uc.SimulateHour(context.Background(), "EURUSD", start, 14)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected insufficient-data error, got %v", err)
	}
}

func TestSimulateQuarterAcrossDates(t *testing.T) {
	d1 := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC)
	candles := append(minuteSeries("EURUSD", d1, 15), minuteSeries("EURUSD", d2, 15)...)
	loader := &fakeLoader{candles: map[string][]models.Candle{"EURUSD": candles}}
	uc := newStraddleUC(t, loader)

	r, err := uc.SimulateQuarter(context.Background(), "EURUSD", 14, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalTrades == 0 {
		t.Fatalf("expected trades over 30 bars")
	}
}

func TestParametersFromSlotHistory(t *testing.T) {
	d1 := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	loader := &fakeLoader{candles: map[string][]models.Candle{
		"EURUSD": minuteSeries("EURUSD", d1, 60),
	}}
	uc := newStraddleUC(t, loader)

	p, err := uc.Parameters(context.Background(), "EURUSD", 14, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.OffsetPips <= 0 {
		t.Fatalf("unexpected offset %v", p.OffsetPips)
	}
	if p.SpreadSafetyPips != DefaultSpreadSafetyPips {
		t.Fatalf("unexpected spread safety %v", p.SpreadSafetyPips)
	}
	if p.SLRecoveryPips < p.StopLossPips {
		t.Fatalf("recovery %v below stop loss %v", p.SLRecoveryPips, p.StopLossPips)
	}
}
