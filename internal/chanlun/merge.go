package chanlun

import "ChanSentinel/internal/model"

// Merge collapses inclusion relationships between adjacent bars into a
// reduced candle series. Two adjacent bars merge when either bar's [low,high]
// interval contains the other's; the merged interval is the union and the
// later bar's open/close are carried forward.
//
// The second return value maps each merged bar to the original index of the
// bar that anchored its merge group, so downstream stages can translate
// merged positions back to the original series.
func Merge(bars []model.Bar) ([]model.MergedBar, []int) {
	if len(bars) == 0 {
		return nil, nil
	}

	merged := make([]model.MergedBar, 0, len(bars))
	sources := make([]int, 0, len(bars))

	i := 0
	for i < len(bars) {
		cur := model.MergedBar{
			Open:  bars[i].Open,
			High:  bars[i].High,
			Low:   bars[i].Low,
			Close: bars[i].Close,
		}
		j := i + 1
		for j < len(bars) {
			next := bars[j]
			contains := next.High >= cur.High && next.Low <= cur.Low
			contained := next.High <= cur.High && next.Low >= cur.Low
			if !contains && !contained {
				break
			}
			if next.High > cur.High {
				cur.High = next.High
			}
			if next.Low < cur.Low {
				cur.Low = next.Low
			}
			cur.Open = next.Open
			cur.Close = next.Close
			j++
		}
		merged = append(merged, cur)
		sources = append(sources, i)
		i = j
	}
	return merged, sources
}
