package chanlun

import "math"

// Band awards Points when Min <= v <= Max. First matching band wins.
type Band struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Points int     `yaml:"points"`
	Label  string  `yaml:"label"`
}

// BandTable maps a factor value to points via ordered bands, with a fallback
// when no band matches.
type BandTable struct {
	Bands         []Band `yaml:"bands"`
	Fallback      int    `yaml:"fallback"`
	FallbackLabel string `yaml:"fallback_label"`
}

// Score returns the points and label for v.
func (t BandTable) Score(v float64) (int, string) {
	for _, b := range t.Bands {
		if v >= b.Min && v <= b.Max {
			return b.Points, b.Label
		}
	}
	return t.Fallback, t.FallbackLabel
}

// GradeBand maps a minimum total score to a letter grade, a canned action
// and an empirical success probability.
type GradeBand struct {
	MinScore    int     `yaml:"min_score"`
	Grade       string  `yaml:"grade"`
	Action      string  `yaml:"action"`
	Probability float64 `yaml:"probability"`
}

// ThirdBuyWeights is the factor table for third-buy scoring.
type ThirdBuyWeights struct {
	Breakout         BandTable `yaml:"breakout"`
	Volume           BandTable `yaml:"volume"`
	PatternStandard  int       `yaml:"pattern_standard"`
	PatternStructure int       `yaml:"pattern_structure"`
	PatternDefault   int       `yaml:"pattern_default"`
	Sublevel         int       `yaml:"sublevel"`
	Space            BandTable `yaml:"space"`
	TrendBull        int       `yaml:"trend_bull"`
	TrendNeutral     int       `yaml:"trend_neutral"`
}

// SecondBuyWeights is the factor table for second-buy scoring. Note that
// shrinking volume is rewarded here, the opposite of the third-buy table.
type SecondBuyWeights struct {
	HoldAboveLow   int `yaml:"hold_above_low"`
	ShrinkVolume   int `yaml:"shrink_volume"`
	BottomFractal  int `yaml:"bottom_fractal"`
	RiskRewardGood int `yaml:"risk_reward_good"`
	RiskRewardFair int `yaml:"risk_reward_fair"`
	TrendBull      int `yaml:"trend_bull"`
	TrendNeutral   int `yaml:"trend_neutral"`
	Sublevel       int `yaml:"sublevel"`
}

// SellWeights is the factor table for sell-family scoring.
type SellWeights struct {
	Breakdown    BandTable `yaml:"breakdown"`
	Rebound      BandTable `yaml:"rebound"`
	Volume       BandTable `yaml:"volume"`
	TrendBear    int       `yaml:"trend_bear"`
	TrendNeutral int       `yaml:"trend_neutral"`
	Sublevel     int       `yaml:"sublevel"`
}

// ScorePolicy holds every weight and grade threshold the scorer uses. The
// rule tables drifted across revisions of the methodology, so they live here
// as data overridable from configuration rather than as constants in the
// scoring code.
type ScorePolicy struct {
	ThirdBuy   ThirdBuyWeights  `yaml:"third_buy"`
	SecondBuy  SecondBuyWeights `yaml:"second_buy"`
	Sell       SellWeights      `yaml:"sell"`
	BuyGrades  []GradeBand      `yaml:"buy_grades"`
	SellGrades []GradeBand      `yaml:"sell_grades"`
}

// DefaultScorePolicy returns the shipped weight tables (latest revision).
func DefaultScorePolicy() *ScorePolicy {
	inf := math.Inf(1)
	return &ScorePolicy{
		ThirdBuy: ThirdBuyWeights{
			Breakout: BandTable{
				Bands: []Band{
					{Min: 3, Max: 8, Points: 30, Label: "突破理想"},
					{Min: 8, Max: 12, Points: 25, Label: "突破良好"},
					{Min: 12, Max: 15, Points: 15, Label: "突破偏高"},
				},
				Fallback:      5,
				FallbackLabel: "突破偏差",
			},
			Volume: BandTable{
				Bands: []Band{
					{Min: 2, Max: inf, Points: 20, Label: "大幅放量"},
					{Min: 1.5, Max: 2, Points: 16, Label: "明显放量"},
					{Min: 1, Max: 1.5, Points: 10, Label: "正常放量"},
				},
				Fallback:      3,
				FallbackLabel: "缩量",
			},
			PatternStandard:  25,
			PatternStructure: 15,
			PatternDefault:   8,
			Sublevel:         10,
			Space: BandTable{
				Bands: []Band{
					{Min: 30, Max: inf, Points: 10, Label: "空间大"},
					{Min: 15, Max: 30, Points: 6, Label: "空间一般"},
				},
				Fallback:      2,
				FallbackLabel: "接近前高",
			},
			TrendBull:    5,
			TrendNeutral: 3,
		},
		SecondBuy: SecondBuyWeights{
			HoldAboveLow:   40,
			ShrinkVolume:   20,
			BottomFractal:  20,
			RiskRewardGood: 10,
			RiskRewardFair: 5,
			TrendBull:      5,
			TrendNeutral:   3,
			Sublevel:       5,
		},
		Sell: SellWeights{
			Breakdown: BandTable{
				Bands: []Band{
					{Min: 5, Max: inf, Points: 30, Label: "强势跌破"},
					{Min: 3, Max: 5, Points: 25, Label: "有效跌破"},
					{Min: 1.5, Max: 3, Points: 15, Label: "跌破"},
				},
				Fallback:      8,
				FallbackLabel: "微弱跌破",
			},
			Rebound: BandTable{
				Bands: []Band{
					{Min: math.Inf(-1), Max: 1, Points: 25, Label: "回抽极弱"},
					{Min: 1, Max: 2, Points: 20, Label: "回抽较弱"},
					{Min: 2, Max: 5, Points: 10, Label: "回抽正常"},
				},
				Fallback:      0,
				FallbackLabel: "回抽过强",
			},
			Volume: BandTable{
				Bands: []Band{
					{Min: 1.5, Max: inf, Points: 20, Label: "放量下跌"},
					{Min: 1, Max: 1.5, Points: 12, Label: "量能正常"},
				},
				Fallback:      0,
				FallbackLabel: "缩量",
			},
			TrendBear:    15,
			TrendNeutral: 8,
			Sublevel:     10,
		},
		BuyGrades: []GradeBand{
			{MinScore: 75, Grade: "A", Action: "强烈推荐-重仓买入", Probability: 0.75},
			{MinScore: 60, Grade: "B", Action: "推荐-适量买入", Probability: 0.62},
			{MinScore: 45, Grade: "C", Action: "谨慎-小仓位试探", Probability: 0.48},
			{MinScore: 30, Grade: "D", Action: "观望-等待确认", Probability: 0.32},
			{MinScore: 0, Grade: "E", Action: "放弃-风险过高", Probability: 0.18},
		},
		SellGrades: []GradeBand{
			{MinScore: 75, Grade: "A", Action: "强烈推荐-立即卖出", Probability: 0.75},
			{MinScore: 60, Grade: "B", Action: "推荐-减仓", Probability: 0.62},
			{MinScore: 45, Grade: "C", Action: "谨慎-部分减仓", Probability: 0.48},
			{MinScore: 30, Grade: "D", Action: "观望-设置止损", Probability: 0.35},
			{MinScore: 0, Grade: "E", Action: "持仓-可能假突破", Probability: 0.22},
		},
	}
}
