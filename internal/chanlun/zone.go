package chanlun

import (
	"math"
	"sort"

	"ChanSentinel/internal/model"
)

// EstimateZone derives the consolidation price band from the original bar
// window: the 40th and 60th percentile of the per-bar midpoint distribution.
// A statistical proxy for the three-overlapping-stroke construction.
func EstimateZone(bars []model.Bar) model.CentralZone {
	if len(bars) == 0 {
		return model.CentralZone{}
	}
	mids := make([]float64, len(bars))
	for i, b := range bars {
		mids[i] = (b.High + b.Low) / 2
	}
	sort.Float64s(mids)
	return model.CentralZone{
		Low:  quantile(mids, 0.40),
		High: quantile(mids, 0.60),
	}
}

// quantile computes the q-th quantile of sorted values with linear
// interpolation between adjacent ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
