package chanlun

import (
	"math"
	"testing"

	"ChanSentinel/internal/model"
)

func closeBars(closes ...float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func TestComputeOscillator_SeededAtFirstClose(t *testing.T) {
	points := ComputeMACD(closeBars(100, 101, 102))
	p0 := points[0]
	if p0.FastEMA != 100 || p0.SlowEMA != 100 {
		t.Errorf("expected EMAs seeded at first close, got %+v", p0)
	}
	if p0.Value != 0 || p0.SignalLine != 0 || p0.Histogram != 0 {
		t.Errorf("expected zero oscillator at first bar, got %+v", p0)
	}
}

func TestComputeOscillator_ConstantSeries(t *testing.T) {
	points := ComputeMACD(closeBars(50, 50, 50, 50, 50))
	for i, p := range points {
		if math.Abs(p.Value) > 1e-12 || math.Abs(p.Histogram) > 1e-12 {
			t.Errorf("bar %d: expected flat oscillator, got %+v", i, p)
		}
	}
}

func TestComputeOscillator_RisingSeriesPositive(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	points := ComputeMACD(closeBars(closes...))
	last := points[len(points)-1]
	if last.Value <= 0 {
		t.Errorf("expected positive oscillator in an uptrend, got %v", last.Value)
	}
	if last.FastEMA <= last.SlowEMA {
		t.Errorf("expected fast EMA above slow EMA, fast=%v slow=%v", last.FastEMA, last.SlowEMA)
	}
}

func TestComputeOscillator_OnePointPerBar(t *testing.T) {
	bars := closeBars(1, 2, 3, 4)
	if got := len(ComputeMACD(bars)); got != len(bars) {
		t.Errorf("expected %d points, got %d", len(bars), got)
	}
	if ComputeMACD(nil) != nil {
		t.Error("expected nil points for empty input")
	}
}

func TestHistogramSum_ClampsRange(t *testing.T) {
	points := []model.OscillatorPoint{
		{Histogram: 1}, {Histogram: 2}, {Histogram: 3},
	}
	if got := histogramSum(points, -5, 10); got != 6 {
		t.Errorf("expected clamped sum 6, got %v", got)
	}
	if got := histogramSum(points, 1, 2); got != 5 {
		t.Errorf("expected sum 5 over [1,2], got %v", got)
	}
}
