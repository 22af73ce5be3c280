package chanlun

import (
	"errors"
	"testing"
	"time"

	"ChanSentinel/internal/model"
)

func risingBars(base float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := range bars {
		p := base * (1 + float64(i)*0.002)
		bars[i] = model.Bar{
			Date:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.004,
			Low:    p * 0.996,
			Close:  p,
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestAnalyze_InsufficientHistory(t *testing.T) {
	a := NewAnalyzer(nil)
	_, err := a.Analyze("600519", "贵州茅台", risingBars(100, 10))
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestAnalyze_MalformedBar(t *testing.T) {
	a := NewAnalyzer(nil)
	bars := risingBars(100, 30)
	bars[7].High = bars[7].Low - 1

	_, err := a.Analyze("600519", "贵州茅台", bars)
	var shapeErr *DataShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected DataShapeError, got %v", err)
	}
	if shapeErr.Index != 7 {
		t.Errorf("expected index 7, got %d", shapeErr.Index)
	}
}

func TestAnalyze_MalformedBarVariants(t *testing.T) {
	a := NewAnalyzer(nil)
	mutations := []struct {
		name   string
		mutate func(b *model.Bar)
	}{
		{"zero date", func(b *model.Bar) { b.Date = time.Time{} }},
		{"non-positive close", func(b *model.Bar) { b.Close = 0 }},
		{"negative volume", func(b *model.Bar) { b.Volume = -1 }},
	}
	for _, tt := range mutations {
		bars := risingBars(100, 30)
		tt.mutate(&bars[3])
		if _, err := a.Analyze("000001", "测试", bars); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestAnalyze_MonotonicSeriesYieldsNoSignal(t *testing.T) {
	// A strictly rising series has no inclusion, no fractals and no strokes,
	// so every signal branch stays untriggered.
	a := NewAnalyzer(nil)
	res, err := a.Analyze("600519", "贵州茅台", risingBars(100, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StrokeCount != 0 || res.TopCount != 0 || res.BottomCount != 0 {
		t.Errorf("expected no structure, got strokes=%d tops=%d bottoms=%d",
			res.StrokeCount, res.TopCount, res.BottomCount)
	}
	if res.Signal != model.SignalNone || res.Action != model.ActionWait {
		t.Errorf("expected wait result, got %q/%q", res.Signal, res.Action)
	}
	if res.ZoneLow > res.ZoneHigh {
		t.Errorf("zone inverted: [%v,%v]", res.ZoneLow, res.ZoneHigh)
	}
	if res.MaxPrice < res.MinPrice {
		t.Errorf("price range inverted: [%v,%v]", res.MinPrice, res.MaxPrice)
	}
}

func TestAnalyze_PopulatesSummaryFields(t *testing.T) {
	a := NewAnalyzer(nil)
	bars := risingBars(50, 40)
	res, err := a.Analyze("300750", "宁德时代", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Code != "300750" || res.Name != "宁德时代" {
		t.Errorf("identity not carried: %s %s", res.Code, res.Name)
	}
	if res.Price != bars[len(bars)-1].Close {
		t.Errorf("price should be the last close, got %v", res.Price)
	}
}

func TestVolumeRatio_ZeroMeanNeutral(t *testing.T) {
	bars := risingBars(100, 25)
	for i := range bars {
		bars[i].Volume = 0
	}
	if got := volumeRatio(bars); got != 0 {
		t.Errorf("expected 0 with zero volumes, got %v", got)
	}
	if got := volumeRatio(nil); got != 1 {
		t.Errorf("expected neutral 1 for empty input, got %v", got)
	}
}
