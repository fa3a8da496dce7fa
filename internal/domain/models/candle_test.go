package models

import (
	"testing"
	"time"
)

var ts = time.Date(2024, 6, 7, 14, 30, 0, 0, time.UTC)

func TestNewCandleValid(t *testing.T) {
	c, err := NewCandle("EURUSD", ts, 1.0850, 1.0860, 1.0845, 1.0855, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HourUTC() != 14 {
		t.Fatalf("unexpected hour %d", c.HourUTC())
	}
}

func TestNewCandleHighBelowLow(t *testing.T) {
	if _, err := NewCandle("EURUSD", ts, 1.0, 0.9, 1.1, 1.0, 0); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewCandleHighBelowClose(t *testing.T) {
	if _, err := NewCandle("EURUSD", ts, 1.0, 1.01, 0.99, 1.02, 0); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewCandleNegative(t *testing.T) {
	if _, err := NewCandle("EURUSD", ts, -1.0, 1.0, 0.5, 0.8, 0); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBodyPercent(t *testing.T) {
	c, _ := NewCandle("EURUSD", ts, 1.0, 1.10, 1.0, 1.05, 0)
	got := c.BodyPercent()
	if got < 49.9 || got > 50.1 {
		t.Fatalf("unexpected body percent %v", got)
	}
}

func TestBodyPercentZeroRange(t *testing.T) {
	c, _ := NewCandle("EURUSD", ts, 1.0, 1.0, 1.0, 1.0, 0)
	if c.BodyPercent() != 0 {
		t.Fatalf("expected 0 for flat bar, got %v", c.BodyPercent())
	}
}

func TestWicks(t *testing.T) {
	c, _ := NewCandle("EURUSD", ts, 1.02, 1.10, 1.00, 1.05, 0)
	if got := c.UpperWick(); got < 0.0499 || got > 0.0501 {
		t.Fatalf("unexpected upper wick %v", got)
	}
	if got := c.LowerWick(); got < 0.0199 || got > 0.0201 {
		t.Fatalf("unexpected lower wick %v", got)
	}
}
