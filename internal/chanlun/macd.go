package chanlun

import "ChanSentinel/internal/model"

// Default oscillator periods.
const (
	FastPeriod   = 12
	SlowPeriod   = 26
	SignalPeriod = 9
)

// ComputeOscillator computes the EMA-based momentum oscillator over the
// original bar series: fast EMA minus slow EMA is the oscillator value, a
// signal-period EMA of the value is the signal line, their difference the
// histogram. One point per input bar.
func ComputeOscillator(bars []model.Bar, fast, slow, signal int) []model.OscillatorPoint {
	if len(bars) == 0 {
		return nil
	}
	points := make([]model.OscillatorPoint, len(bars))

	fastAlpha := 2.0 / float64(fast+1)
	slowAlpha := 2.0 / float64(slow+1)
	sigAlpha := 2.0 / float64(signal+1)

	for i, b := range bars {
		p := &points[i]
		if i == 0 {
			p.FastEMA = b.Close
			p.SlowEMA = b.Close
		} else {
			prev := points[i-1]
			p.FastEMA = fastAlpha*b.Close + (1-fastAlpha)*prev.FastEMA
			p.SlowEMA = slowAlpha*b.Close + (1-slowAlpha)*prev.SlowEMA
		}
		p.Value = p.FastEMA - p.SlowEMA
		if i == 0 {
			p.SignalLine = p.Value
		} else {
			p.SignalLine = sigAlpha*p.Value + (1-sigAlpha)*points[i-1].SignalLine
		}
		p.Histogram = p.Value - p.SignalLine
	}
	return points
}

// ComputeMACD runs ComputeOscillator with the standard 12/26/9 periods.
func ComputeMACD(bars []model.Bar) []model.OscillatorPoint {
	return ComputeOscillator(bars, FastPeriod, SlowPeriod, SignalPeriod)
}

// histogramSum sums histogram values over the inclusive index range
// [from, to], clamped to the series bounds.
func histogramSum(points []model.OscillatorPoint, from, to int) float64 {
	if from < 0 {
		from = 0
	}
	if to >= len(points) {
		to = len(points) - 1
	}
	var sum float64
	for i := from; i <= to; i++ {
		sum += points[i].Histogram
	}
	return sum
}
