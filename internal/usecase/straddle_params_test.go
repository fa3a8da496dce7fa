package usecase

import "testing"

func TestCalculateParametersTypical(t *testing.T) {
	svc := NewStraddleParameterService()
	// atr 20 pips, moderately choppy slot
	p := svc.CalculateParameters(0.0020, 2.2, 0.0001, 0, 0)

	// ceil(0.0020*1.5/0.0001) + 3 safety
	if p.OffsetPips != 33 {
		t.Fatalf("unexpected offset %v", p.OffsetPips)
	}
	// noise 2.2 selects ratio 2.0
	if p.StopLossPips != 40 {
		t.Fatalf("unexpected stop loss %v", p.StopLossPips)
	}
	if p.TrailingStopPips != 20 {
		t.Fatalf("unexpected trailing stop %v", p.TrailingStopPips)
	}
	// max(40, 3*33)
	if p.SLRecoveryPips != 99 {
		t.Fatalf("unexpected recovery %v", p.SLRecoveryPips)
	}
	if p.TimeoutMinutes != 3 {
		t.Fatalf("unexpected timeout %d", p.TimeoutMinutes)
	}
	if p.RiskReward != 0.5 {
		t.Fatalf("unexpected risk reward %v", p.RiskReward)
	}
}

func TestCalculateParametersQuietSlot(t *testing.T) {
	svc := NewStraddleParameterService()
	p := svc.CalculateParameters(0.0010, 1.0, 0.0001, 0, 0)

	// ceil(0.0010*1.2/0.0001) + 3
	if p.OffsetPips != 15 {
		t.Fatalf("unexpected offset %v", p.OffsetPips)
	}
	if p.StopLossPips != 15 {
		t.Fatalf("unexpected stop loss %v", p.StopLossPips)
	}
	if p.TrailingStopPips != 6 {
		t.Fatalf("unexpected trailing stop %v", p.TrailingStopPips)
	}
}

func TestCalculateParametersHalfLifeClamped(t *testing.T) {
	svc := NewStraddleParameterService()
	if got := svc.CalculateParameters(0.0010, 1.0, 0.0001, 0, 40).TimeoutMinutes; got != 15 {
		t.Fatalf("expected clamp to 15, got %d", got)
	}
	if got := svc.CalculateParameters(0.0010, 1.0, 0.0001, 0, 7).TimeoutMinutes; got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestStopLossMonotonicInNoise(t *testing.T) {
	svc := NewStraddleParameterService()
	prev := 0.0
	for _, noise := range []float64{1.0, 1.6, 2.1, 2.6, 3.1} {
		sl := svc.CalculateParameters(0.0020, noise, 0.0001, 0, 0).StopLossPips
		if sl < prev {
			t.Fatalf("stop loss shrank at noise %v: %v < %v", noise, sl, prev)
		}
		prev = sl
	}
}

func TestCalculateParametersZeroATR(t *testing.T) {
	svc := NewStraddleParameterService()
	p := svc.CalculateParameters(0, 1.0, 0.0001, 0, 0)
	if p.StopLossPips != 0 {
		t.Fatalf("unexpected stop loss %v", p.StopLossPips)
	}
	if p.RiskReward != 0 {
		t.Fatalf("unexpected risk reward %v", p.RiskReward)
	}
}
