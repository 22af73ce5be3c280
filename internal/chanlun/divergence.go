package chanlun

import "ChanSentinel/internal/model"

// Divergence heuristic ratios: the latest drop must carry at least 80% of the
// prior drop's magnitude for a bottom divergence, the latest rise less than
// 120% of the prior rise for a top divergence.
const (
	bottomDropRatio = 0.8
	topRiseRatio    = 1.2
)

// DetectDivergence compares the last two same-direction strokes' extremes
// against price position relative to the zone to flag weakening momentum.
// Both checks run independently; when both trigger the top finding wins.
// Strength is reported as a fixed "中".
func DetectDivergence(strokes []model.Stroke, zone model.CentralZone, currentPrice float64) model.DivergenceFinding {
	finding := model.DivergenceFinding{Kind: model.DivergenceNone}
	if len(strokes) < 2 {
		return finding
	}

	var ups, downs []model.Stroke
	for _, s := range strokes {
		if s.Direction == model.StrokeUp {
			ups = append(ups, s)
		} else {
			downs = append(downs, s)
		}
	}

	if len(downs) >= 2 {
		last, prev := downs[len(downs)-1], downs[len(downs)-2]
		newLow := last.EndPrice < prev.EndPrice
		lastDrop := abs(last.EndPrice - last.StartPrice)
		prevDrop := abs(prev.EndPrice - prev.StartPrice)
		if newLow && lastDrop > prevDrop*bottomDropRatio && currentPrice < zone.Low {
			finding = model.DivergenceFinding{
				Present:     true,
				Kind:        model.DivergenceBottom,
				Strength:    "中",
				Explanation: "价格创新低但力度减弱，可能形成一买背驰",
			}
		}
	}

	if len(ups) >= 2 {
		last, prev := ups[len(ups)-1], ups[len(ups)-2]
		newHigh := last.EndPrice > prev.EndPrice
		lastRise := last.EndPrice - last.StartPrice
		prevRise := prev.EndPrice - prev.StartPrice
		if newHigh && lastRise < prevRise*topRiseRatio && currentPrice > zone.High {
			finding = model.DivergenceFinding{
				Present:     true,
				Kind:        model.DivergenceTop,
				Strength:    "中",
				Explanation: "价格创新高但力度减弱，可能形成背驰卖点",
			}
		}
	}

	return finding
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
