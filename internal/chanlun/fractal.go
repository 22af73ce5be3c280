package chanlun

import "ChanSentinel/internal/model"

// isTopFractal reports whether the bar at idx-1 is a top fractal of the
// triple (idx-2, idx-1, idx): its high and low both exceed both neighbors'.
func isTopFractal(bars []model.MergedBar, idx int) bool {
	if idx < 2 || idx >= len(bars) {
		return false
	}
	left, mid, right := bars[idx-2], bars[idx-1], bars[idx]
	return mid.High > left.High && mid.High > right.High &&
		mid.Low > left.Low && mid.Low > right.Low
}

// isBottomFractal is the mirror of isTopFractal on lows.
func isBottomFractal(bars []model.MergedBar, idx int) bool {
	if idx < 2 || idx >= len(bars) {
		return false
	}
	left, mid, right := bars[idx-2], bars[idx-1], bars[idx]
	return mid.Low < left.Low && mid.Low < right.Low &&
		mid.High < left.High && mid.High < right.High
}

// DetectFractals scans the merged series for 3-bar turning points and returns
// them in order along with top/bottom counts. Fewer than 3 merged bars yield
// no fractals.
func DetectFractals(bars []model.MergedBar) (fractals []model.Fractal, tops, bottoms int) {
	for i := 2; i < len(bars); i++ {
		switch {
		case isTopFractal(bars, i):
			fractals = append(fractals, model.Fractal{
				Position: i - 1,
				Kind:     model.FractalTop,
				Price:    bars[i-1].High,
			})
			tops++
		case isBottomFractal(bars, i):
			fractals = append(fractals, model.Fractal{
				Position: i - 1,
				Kind:     model.FractalBottom,
				Price:    bars[i-1].Low,
			})
			bottoms++
		}
	}
	return fractals, tops, bottoms
}
