package chanlun

import (
	"math"
	"strings"
	"testing"

	"ChanSentinel/internal/model"
)

// spreadBars builds count bars centered on price with a fixed high-low spread.
func spreadBars(price, spread float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := range bars {
		bars[i] = model.Bar{
			Open:  price,
			High:  price + spread/2,
			Low:   price - spread/2,
			Close: price,
		}
	}
	return bars
}

func TestATR_InsufficientHistory(t *testing.T) {
	if got := ATR(spreadBars(100, 2, 10), 20); got != 0 {
		t.Errorf("expected 0 for short history, got %v", got)
	}
}

func TestATR_ConstantSpread(t *testing.T) {
	got := ATR(spreadBars(100, 2, 30), 20)
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("expected ATR 2, got %v", got)
	}
}

func TestDynamicThreshold_Buckets(t *testing.T) {
	tests := []struct {
		spread float64
		level  model.VolatilityLevel
	}{
		{1, model.VolatilityLow},    // 1% of price
		{3, model.VolatilityMedium}, // 3%
		{5, model.VolatilityHigh},   // 5%
	}
	for _, tt := range tests {
		th := DynamicThreshold(spreadBars(100, tt.spread, 30))
		if th.Level != tt.level {
			t.Errorf("spread %v: expected %s, got %s", tt.spread, tt.level, th.Level)
		}
	}
}

func TestDynamicThreshold_WidensWithVolatility(t *testing.T) {
	low := DynamicThreshold(spreadBars(100, 1, 30))
	med := DynamicThreshold(spreadBars(100, 3, 30))
	high := DynamicThreshold(spreadBars(100, 5, 30))
	if !(low.BreakoutMax < med.BreakoutMax && med.BreakoutMax < high.BreakoutMax) {
		t.Errorf("breakout max not widening: %v %v %v", low.BreakoutMax, med.BreakoutMax, high.BreakoutMax)
	}
	if !(low.BreakoutMin < med.BreakoutMin && med.BreakoutMin < high.BreakoutMin) {
		t.Errorf("breakout min not widening: %v %v %v", low.BreakoutMin, med.BreakoutMin, high.BreakoutMin)
	}
}

func TestValidateBreakout(t *testing.T) {
	th := model.VolatilityThreshold{BreakoutMin: 1, BreakoutMax: 10}
	if ok, reason := ValidateBreakout(0.5, th); ok || !strings.Contains(reason, "不足") {
		t.Errorf("expected insufficient breakout, got ok=%v reason=%q", ok, reason)
	}
	if ok, reason := ValidateBreakout(15, th); ok || !strings.Contains(reason, "追高") {
		t.Errorf("expected chase-risk breakout, got ok=%v reason=%q", ok, reason)
	}
	if ok, reason := ValidateBreakout(5, th); !ok || !strings.Contains(reason, "合理") {
		t.Errorf("expected valid breakout, got ok=%v reason=%q", ok, reason)
	}
}

func TestValidateBreakdown(t *testing.T) {
	th := model.VolatilityThreshold{BreakdownMin: 1.5}
	if ok, _ := ValidateBreakdown(1.0, th); ok {
		t.Error("expected breakdown below minimum to be invalid")
	}
	if ok, _ := ValidateBreakdown(2.0, th); !ok {
		t.Error("expected breakdown above minimum to be valid")
	}
}
