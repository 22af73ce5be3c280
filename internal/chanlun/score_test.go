package chanlun

import (
	"reflect"
	"testing"
)

func TestScoreThirdBuy_IdealSetup(t *testing.T) {
	p := DefaultScorePolicy()
	score := p.ScoreThirdBuy(ScoreContext{
		BreakoutPct:   5,   // 30
		VolumeRatio:   2.5, // 20
		DistanceToMax: 40,  // 10
		MarketTrend:   TrendNeutral,
	})
	// 30 + 20 + 8 (no pattern) + 10 + 3 = 71
	if score.TotalScore != 71 {
		t.Fatalf("expected 71, got %d", score.TotalScore)
	}
	if score.Grade != "B" {
		t.Errorf("expected grade B, got %s", score.Grade)
	}
	if score.Probability != 0.62 {
		t.Errorf("expected probability 0.62, got %v", score.Probability)
	}
	if len(score.Details) == 0 {
		t.Error("expected factor details")
	}
}

func TestScoreThirdBuy_PatternBonusHierarchy(t *testing.T) {
	p := DefaultScorePolicy()
	base := ScoreContext{BreakoutPct: 5, VolumeRatio: 1.2, MarketTrend: TrendNeutral}

	std := base
	std.StandardPattern = true
	structure := base
	structure.BreakoutStructure = true

	sStd := p.ScoreThirdBuy(std).TotalScore
	sStruct := p.ScoreThirdBuy(structure).TotalScore
	sNone := p.ScoreThirdBuy(base).TotalScore
	if !(sStd > sStruct && sStruct > sNone) {
		t.Errorf("pattern hierarchy broken: standard=%d structure=%d none=%d", sStd, sStruct, sNone)
	}
}

func TestScoreSecondBuy_FullSetup(t *testing.T) {
	p := DefaultScorePolicy()
	score := p.ScoreSecondBuy(ScoreContext{
		CurrentPrice:  10,
		FirstBuyLow:   9,   // held above: 40
		VolumeRatio:   0.8, // shrinking: 20
		BottomFractal: true, // 20
		StopLoss:      9.5, // risk 5%, reward 20%: ratio 4 -> 10
		TargetPrice:   12,
		MarketTrend:   TrendBull, // 5
	})
	if score.TotalScore != 95 {
		t.Fatalf("expected 95, got %d", score.TotalScore)
	}
	if score.Grade != "A" {
		t.Errorf("expected grade A, got %s", score.Grade)
	}
}

func TestScoreSecondBuy_BrokenLowScoresZeroBase(t *testing.T) {
	p := DefaultScorePolicy()
	score := p.ScoreSecondBuy(ScoreContext{
		CurrentPrice: 8,
		FirstBuyLow:  9,
		VolumeRatio:  1.5,
		MarketTrend:  TrendBear,
	})
	if score.TotalScore != 0 {
		t.Errorf("expected 0 for broken low, got %d", score.TotalScore)
	}
	if score.Grade != "E" {
		t.Errorf("expected grade E, got %s", score.Grade)
	}
}

func TestScoreSell_StrongBreakdown(t *testing.T) {
	p := DefaultScorePolicy()
	score := p.ScoreSell(ScoreContext{
		BreakoutPct: -6,  // |.|=6: 30
		ReboundPct:  0.5, // 25
		VolumeRatio: 2,   // 20
		MarketTrend: TrendNeutral, // 8
	})
	if score.TotalScore != 83 {
		t.Fatalf("expected 83, got %d", score.TotalScore)
	}
	if score.Grade != "A" || score.Probability != 0.75 {
		t.Errorf("expected A/0.75, got %s/%v", score.Grade, score.Probability)
	}
}

func TestScore_Deterministic(t *testing.T) {
	p := DefaultScorePolicy()
	ctx := ScoreContext{BreakoutPct: 4, VolumeRatio: 1.7, DistanceToMax: 20, MarketTrend: TrendBull}
	a := p.ScoreThirdBuy(ctx)
	b := p.ScoreThirdBuy(ctx)
	if a.TotalScore != b.TotalScore || a.Grade != b.Grade || !reflect.DeepEqual(a.Details, b.Details) {
		t.Errorf("scoring not deterministic: %+v vs %+v", a, b)
	}
}

func TestFinalize_GradeBoundaries(t *testing.T) {
	p := DefaultScorePolicy()
	tests := []struct {
		score int
		grade string
	}{
		{80, "A"},
		{75, "A"},
		{74, "B"},
		{60, "B"},
		{59, "C"},
		{45, "C"},
		{44, "D"},
		{30, "D"},
		{29, "E"},
		{0, "E"},
	}
	for _, tt := range tests {
		got := p.finalize(tt.score, nil, p.BuyGrades)
		if got.Grade != tt.grade {
			t.Errorf("score %d: expected %s, got %s", tt.score, tt.grade, got.Grade)
		}
	}
}

func TestBandTable_FirstMatchAndFallback(t *testing.T) {
	tbl := BandTable{
		Bands: []Band{
			{Min: 3, Max: 8, Points: 30, Label: "a"},
			{Min: 8, Max: 12, Points: 25, Label: "b"},
		},
		Fallback:      5,
		FallbackLabel: "other",
	}
	if pts, label := tbl.Score(8); pts != 30 || label != "a" {
		t.Errorf("boundary value should hit the first band, got %d/%s", pts, label)
	}
	if pts, label := tbl.Score(20); pts != 5 || label != "other" {
		t.Errorf("expected fallback, got %d/%s", pts, label)
	}
}
