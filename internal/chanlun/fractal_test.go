package chanlun

import (
	"testing"

	"ChanSentinel/internal/model"
)

func mb(high, low float64) model.MergedBar {
	return model.MergedBar{High: high, Low: low}
}

func TestDetectFractals_Top(t *testing.T) {
	bars := []model.MergedBar{mb(10, 5), mb(12, 7), mb(9, 4)}
	fractals, tops, bottoms := DetectFractals(bars)
	if tops != 1 || bottoms != 0 {
		t.Fatalf("expected 1 top, got tops=%d bottoms=%d", tops, bottoms)
	}
	f := fractals[0]
	if f.Kind != model.FractalTop || f.Position != 1 || f.Price != 12 {
		t.Errorf("unexpected fractal: %+v", f)
	}
}

func TestDetectFractals_Bottom(t *testing.T) {
	bars := []model.MergedBar{mb(10, 5), mb(8, 3), mb(11, 6)}
	fractals, tops, bottoms := DetectFractals(bars)
	if tops != 0 || bottoms != 1 {
		t.Fatalf("expected 1 bottom, got tops=%d bottoms=%d", tops, bottoms)
	}
	f := fractals[0]
	if f.Kind != model.FractalBottom || f.Position != 1 || f.Price != 3 {
		t.Errorf("unexpected fractal: %+v", f)
	}
}

func TestDetectFractals_RequiresBothDominance(t *testing.T) {
	// Middle high exceeds both neighbors but the low does not: no fractal.
	bars := []model.MergedBar{mb(10, 5), mb(12, 4), mb(9, 6)}
	_, tops, bottoms := DetectFractals(bars)
	if tops != 0 || bottoms != 0 {
		t.Errorf("expected no fractals, got tops=%d bottoms=%d", tops, bottoms)
	}
}

func TestDetectFractals_MonotonicSeries(t *testing.T) {
	bars := []model.MergedBar{mb(10, 5), mb(11, 6), mb(12, 7), mb(13, 8)}
	fractals, _, _ := DetectFractals(bars)
	if len(fractals) != 0 {
		t.Errorf("expected no fractals in a monotonic series, got %d", len(fractals))
	}
}

func TestDetectFractals_TooFewBars(t *testing.T) {
	fractals, _, _ := DetectFractals([]model.MergedBar{mb(10, 5), mb(12, 7)})
	if fractals != nil {
		t.Errorf("expected no fractals for 2 bars, got %v", fractals)
	}
}
