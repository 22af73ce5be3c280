package calculator

import (
	"errors"

	"ChanSentinel/internal/model"
)

// Trend periods. A close above both means an uptrend, below both a downtrend.
const (
	TrendFastPeriod = 20
	TrendSlowPeriod = 60
)

// SMA computes the simple moving average of the trailing period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// Closes extracts the close series from bars.
func Closes(bars []model.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Trend classifies an instrument's own price trend from its moving
// averages: above the 20 and 60 day SMAs is "bull", below both is
// "bear", anything else or too little history is "neutral".
func Trend(bars []model.Bar) string {
	closes := Closes(bars)
	fast, err := SMA(closes, TrendFastPeriod)
	if err != nil {
		return "neutral"
	}
	price := closes[len(closes)-1]

	slow, err := SMA(closes, TrendSlowPeriod)
	if err != nil {
		// Short history: fall back to the fast average alone.
		slow = fast
	}

	switch {
	case price > fast && price > slow:
		return "bull"
	case price < fast && price < slow:
		return "bear"
	default:
		return "neutral"
	}
}

// PriceRange returns the highest high and lowest low across all bars.
func PriceRange(bars []model.Bar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = bars[0].High
	low = bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}
