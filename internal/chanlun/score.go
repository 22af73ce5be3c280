package chanlun

import (
	"fmt"

	"ChanSentinel/internal/model"
)

// Market trend tags recognized by the scorer.
const (
	TrendBull    = "bull"
	TrendNeutral = "neutral"
	TrendBear    = "bear"
)

// ScoreContext enumerates every factor the scorer recognizes. Missing
// optional signals keep their zero value: sub-level confirmation in
// particular is currently never available and defaults to false.
type ScoreContext struct {
	BreakoutPct   float64
	VolumeRatio   float64 // current volume vs 20-bar average
	ReboundPct    float64
	DistanceToMax float64 // percent distance to the window high

	CurrentPrice float64
	FirstBuyLow  float64
	StopLoss     float64
	TargetPrice  float64

	BottomFractal     bool
	StandardPattern   bool
	BreakoutStructure bool
	SublevelConfirm   bool

	MarketTrend string // bull, neutral or bear
}

// ScoreThirdBuy applies the third-buy factor table: breakout magnitude,
// volume confirmation, pattern completeness, sub-level bonus, room to the
// window high, and market trend.
func (p *ScorePolicy) ScoreThirdBuy(ctx ScoreContext) model.SignalScore {
	score := 0
	var details []string

	pts, label := p.ThirdBuy.Breakout.Score(ctx.BreakoutPct)
	score += pts
	details = append(details, fmt.Sprintf("%s %.1f%%(%d分)", label, ctx.BreakoutPct, pts))

	pts, label = p.ThirdBuy.Volume.Score(ctx.VolumeRatio)
	score += pts
	details = append(details, fmt.Sprintf("%s %.2f倍(%d分)", label, ctx.VolumeRatio, pts))

	switch {
	case ctx.StandardPattern:
		score += p.ThirdBuy.PatternStandard
		details = append(details, fmt.Sprintf("标准形态(%d分)", p.ThirdBuy.PatternStandard))
	case ctx.BreakoutStructure:
		score += p.ThirdBuy.PatternStructure
		details = append(details, fmt.Sprintf("有突破结构(%d分)", p.ThirdBuy.PatternStructure))
	default:
		score += p.ThirdBuy.PatternDefault
		details = append(details, fmt.Sprintf("形态一般(%d分)", p.ThirdBuy.PatternDefault))
	}

	if ctx.SublevelConfirm {
		score += p.ThirdBuy.Sublevel
		details = append(details, fmt.Sprintf("次级别确认(%d分)", p.ThirdBuy.Sublevel))
	}

	pts, label = p.ThirdBuy.Space.Score(ctx.DistanceToMax)
	score += pts
	details = append(details, fmt.Sprintf("%s(%d分)", label, pts))

	score += p.trendPoints(ctx.MarketTrend, p.ThirdBuy.TrendBull, p.ThirdBuy.TrendNeutral, 0, &details)

	return p.finalize(score, details, p.BuyGrades)
}

// ScoreSecondBuy applies the second-buy factor table. The core factor is
// holding above the first-buy low; shrinking volume is rewarded, the reverse
// of the third-buy volume factor.
func (p *ScorePolicy) ScoreSecondBuy(ctx ScoreContext) model.SignalScore {
	score := 0
	var details []string

	if ctx.CurrentPrice > 0 && ctx.FirstBuyLow > 0 {
		if ctx.CurrentPrice > ctx.FirstBuyLow {
			score += p.SecondBuy.HoldAboveLow
			details = append(details, fmt.Sprintf("回踩不破底，基础分(%d分)", p.SecondBuy.HoldAboveLow))
		} else {
			details = append(details, "跌破一买低点，二买不成立(0分)")
		}
	}

	if ctx.VolumeRatio < 1.0 {
		score += p.SecondBuy.ShrinkVolume
		details = append(details, fmt.Sprintf("缩量回踩 %.2f倍(%d分)", ctx.VolumeRatio, p.SecondBuy.ShrinkVolume))
	} else {
		details = append(details, fmt.Sprintf("未明显缩量 %.2f倍(0分)", ctx.VolumeRatio))
	}

	if ctx.BottomFractal {
		score += p.SecondBuy.BottomFractal
		details = append(details, fmt.Sprintf("底分型确认(%d分)", p.SecondBuy.BottomFractal))
	} else {
		details = append(details, "无底分型确认(0分)")
	}

	if ctx.CurrentPrice > 0 && ctx.StopLoss > 0 {
		risk := (ctx.CurrentPrice - ctx.StopLoss) / ctx.CurrentPrice * 100
		reward := (ctx.TargetPrice - ctx.CurrentPrice) / ctx.CurrentPrice * 100
		if risk > 0 {
			switch rr := reward / risk; {
			case rr >= 2:
				score += p.SecondBuy.RiskRewardGood
				details = append(details, fmt.Sprintf("盈亏比优秀(%d分)", p.SecondBuy.RiskRewardGood))
			case rr >= 1.5:
				score += p.SecondBuy.RiskRewardFair
				details = append(details, fmt.Sprintf("盈亏比一般(%d分)", p.SecondBuy.RiskRewardFair))
			}
		}
	}

	score += p.trendPoints(ctx.MarketTrend, p.SecondBuy.TrendBull, p.SecondBuy.TrendNeutral, 0, &details)

	if ctx.SublevelConfirm {
		score += p.SecondBuy.Sublevel
		details = append(details, fmt.Sprintf("次级别确认(+%d分)", p.SecondBuy.Sublevel))
	}

	return p.finalize(score, details, p.BuyGrades)
}

// ScoreSell applies the sell-family factor table: breakdown magnitude,
// rebound weakness, volume, market trend, sub-level bonus.
func (p *ScorePolicy) ScoreSell(ctx ScoreContext) model.SignalScore {
	score := 0
	var details []string

	breakdown := abs(ctx.BreakoutPct)
	pts, label := p.Sell.Breakdown.Score(breakdown)
	score += pts
	details = append(details, fmt.Sprintf("%s %.1f%%(%d分)", label, breakdown, pts))

	pts, label = p.Sell.Rebound.Score(ctx.ReboundPct)
	score += pts
	details = append(details, fmt.Sprintf("%s(%d分)", label, pts))

	pts, label = p.Sell.Volume.Score(ctx.VolumeRatio)
	score += pts
	details = append(details, fmt.Sprintf("%s %.2f倍(%d分)", label, ctx.VolumeRatio, pts))

	switch ctx.MarketTrend {
	case TrendBear:
		score += p.Sell.TrendBear
		details = append(details, fmt.Sprintf("熊市(%d分)", p.Sell.TrendBear))
	case TrendNeutral, "":
		score += p.Sell.TrendNeutral
		details = append(details, fmt.Sprintf("震荡(%d分)", p.Sell.TrendNeutral))
	default:
		details = append(details, "牛市(0分)")
	}

	if ctx.SublevelConfirm {
		score += p.Sell.Sublevel
		details = append(details, fmt.Sprintf("次级别确认(%d分)", p.Sell.Sublevel))
	}

	return p.finalize(score, details, p.SellGrades)
}

func (p *ScorePolicy) trendPoints(trend string, bull, neutral, bear int, details *[]string) int {
	switch trend {
	case TrendBull:
		*details = append(*details, fmt.Sprintf("牛市(%d分)", bull))
		return bull
	case TrendNeutral, "":
		*details = append(*details, fmt.Sprintf("震荡(%d分)", neutral))
		return neutral
	default:
		*details = append(*details, fmt.Sprintf("熊市(%d分)", bear))
		return bear
	}
}

func (p *ScorePolicy) finalize(score int, details []string, bands []GradeBand) model.SignalScore {
	for _, b := range bands {
		if score >= b.MinScore {
			return model.SignalScore{
				TotalScore:  score,
				Grade:       b.Grade,
				Action:      b.Action,
				Probability: b.Probability,
				Details:     details,
			}
		}
	}
	// No band matched; treat as the bottom grade.
	last := bands[len(bands)-1]
	return model.SignalScore{
		TotalScore:  score,
		Grade:       last.Grade,
		Action:      last.Action,
		Probability: last.Probability,
		Details:     details,
	}
}
