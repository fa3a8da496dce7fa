package models

import "testing"

func TestAdjustForWhipsawZeroFrequency(t *testing.T) {
	r := StraddleSimulationResult{WinRate: 60, OffsetPips: 10, WhipsawFrequency: 0}
	adj := r.AdjustForWhipsaw()
	if adj.AdjustedWinRate != 60 {
		t.Fatalf("unexpected win rate %v", adj.AdjustedWinRate)
	}
	if adj.AdjustedStopLoss != 10 {
		t.Fatalf("unexpected stop loss %v", adj.AdjustedStopLoss)
	}
	if adj.AdjustedTimeout != 32 {
		t.Fatalf("unexpected timeout %d", adj.AdjustedTimeout)
	}
}

func TestAdjustForWhipsawDiscounts(t *testing.T) {
	r := StraddleSimulationResult{WinRate: 60, OffsetPips: 10, WhipsawFrequency: 50}
	adj := r.AdjustForWhipsaw()
	if adj.AdjustedWinRate != 30 {
		t.Fatalf("unexpected win rate %v", adj.AdjustedWinRate)
	}
	if adj.AdjustedStopLoss < 11.49 || adj.AdjustedStopLoss > 11.51 {
		t.Fatalf("unexpected stop loss %v", adj.AdjustedStopLoss)
	}
	if adj.AdjustedTimeout != 24 {
		t.Fatalf("unexpected timeout %d", adj.AdjustedTimeout)
	}
}

func TestAdjustForWhipsawTimeoutFloor(t *testing.T) {
	r := StraddleSimulationResult{WhipsawFrequency: 100}
	if got := r.AdjustForWhipsaw().AdjustedTimeout; got != 18 {
		t.Fatalf("expected floor 18, got %d", got)
	}
}
