package chanlun

import (
	"fmt"
	"math"

	"ChanSentinel/internal/model"
)

// ATRPeriod is the rolling window for the average true range.
const ATRPeriod = 20

// ATR computes the average true range over the trailing period: per-bar true
// range is max(high-low, |high-prevClose|, |low-prevClose|), the ATR its
// rolling mean at the latest bar. Returns 0 when the history is shorter than
// the period.
func ATR(bars []model.Bar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}
	var sum float64
	for i := len(bars) - period; i < len(bars); i++ {
		tr := bars[i].High - bars[i].Low
		if i > 0 {
			prevClose := bars[i-1].Close
			tr = math.Max(tr, math.Abs(bars[i].High-prevClose))
			tr = math.Max(tr, math.Abs(bars[i].Low-prevClose))
		}
		sum += tr
	}
	return sum / float64(period)
}

// DynamicThreshold buckets the instrument by its ATR/price volatility ratio
// and returns the breakout tolerance band for that bucket. Higher volatility
// widens the tolerated breakout range.
func DynamicThreshold(bars []model.Bar) model.VolatilityThreshold {
	atr := ATR(bars, ATRPeriod)

	var avgClose float64
	for _, b := range bars {
		avgClose += b.Close
	}
	if len(bars) > 0 {
		avgClose /= float64(len(bars))
	}

	volatility := 0.03
	if avgClose > 0 {
		volatility = atr / avgClose
	}

	switch {
	case volatility > 0.04:
		return model.VolatilityThreshold{
			Level:        model.VolatilityHigh,
			BreakoutMin:  3.0,
			BreakoutMax:  25.0,
			BreakdownMin: 2.0,
			Description:  "高波动股",
		}
	case volatility > 0.025:
		return model.VolatilityThreshold{
			Level:        model.VolatilityMedium,
			BreakoutMin:  2.0,
			BreakoutMax:  15.0,
			BreakdownMin: 2.0,
			Description:  "中波动股",
		}
	default:
		return model.VolatilityThreshold{
			Level:        model.VolatilityLow,
			BreakoutMin:  1.0,
			BreakoutMax:  10.0,
			BreakdownMin: 1.5,
			Description:  "低波动股",
		}
	}
}

// ValidateBreakout checks an upward breakout percentage against the
// instrument's tolerance band. Below the minimum the breakout is
// insufficient; above the maximum it is a chase risk.
func ValidateBreakout(breakoutPct float64, th model.VolatilityThreshold) (bool, string) {
	if breakoutPct < th.BreakoutMin {
		return false, fmt.Sprintf("突破幅度%.1f%%不足", breakoutPct)
	}
	if breakoutPct > th.BreakoutMax {
		return false, fmt.Sprintf("突破幅度%.1f%%过大，追高风险", breakoutPct)
	}
	return true, fmt.Sprintf("突破幅度%.1f%%合理", breakoutPct)
}

// ValidateBreakdown checks a downward break percentage against the band.
func ValidateBreakdown(breakdownPct float64, th model.VolatilityThreshold) (bool, string) {
	if breakdownPct < th.BreakdownMin {
		return false, fmt.Sprintf("跌破幅度%.1f%%不足", breakdownPct)
	}
	return true, fmt.Sprintf("跌破幅度%.1f%%有效", breakdownPct)
}
