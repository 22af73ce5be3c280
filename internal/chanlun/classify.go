package chanlun

import (
	"fmt"
	"math"
	"strings"

	"ChanSentinel/internal/model"
)

// classifyInput carries the pipeline state the signal cascade works from.
type classifyInput struct {
	bars     []model.Bar
	osc      []model.OscillatorPoint
	strokes  []model.Stroke
	zone     model.CentralZone
	div      model.DivergenceFinding
	price    float64
	maxPrice float64
	minPrice float64
	trend    string
}

// sellFinding is the result of the sell-pattern scan.
type sellFinding struct {
	present     bool
	kind        string // "三卖" or "二卖"
	reboundPct  float64
	explanation string
}

// detectSellSignal scans the last three strokes for the two sell patterns.
//
// Third sell: down, up, down with the rebound high staying below the zone's
// low bound and current price below that rebound high. Second sell: up, down
// where the up-breakout cleared the zone's high, the pullback landed inside
// the zone, and price remains inside it.
func detectSellSignal(strokes []model.Stroke, zone model.CentralZone, price float64) sellFinding {
	if len(strokes) < 3 {
		return sellFinding{}
	}
	recent := strokes[len(strokes)-3:]

	if recent[0].Direction == model.StrokeDown &&
		recent[1].Direction == model.StrokeUp &&
		recent[2].Direction == model.StrokeDown {
		reboundHigh := recent[1].EndPrice
		if reboundHigh < zone.Low && price < reboundHigh {
			reboundPct := 0.0
			if recent[1].StartPrice > 0 {
				reboundPct = (recent[1].EndPrice - recent[1].StartPrice) / recent[1].StartPrice * 100
			}
			return sellFinding{
				present:     true,
				kind:        "三卖",
				reboundPct:  reboundPct,
				explanation: "向下离开中枢后反弹未回中枢，三卖信号",
			}
		}
	}

	if recent[0].Direction == model.StrokeUp && recent[1].Direction == model.StrokeDown {
		upHigh := recent[0].EndPrice
		downLow := recent[1].EndPrice
		if upHigh > zone.High && downLow < zone.High && downLow > zone.Low && price < zone.High {
			return sellFinding{
				present:     true,
				kind:        "二卖",
				explanation: "突破后回抽至中枢内，二卖信号",
			}
		}
	}

	return sellFinding{}
}

// classify runs the priority cascade: sell signals, third buy, second buy,
// first buy, otherwise wait. The first matching branch wins; a branch that
// is entered but whose inner checks fail still consumes the cascade.
func (a *Analyzer) classify(in *classifyInput, res *model.AnalysisResult) {
	sell := detectSellSignal(in.strokes, in.zone, in.price)

	switch {
	case sell.present:
		a.classifySell(in, res, sell)
	case in.price > in.zone.High && len(in.strokes) > 0:
		a.classifyThirdBuy(in, res)
	case len(in.strokes) >= 3 && len(in.bars) >= MinBarsForStrokes:
		a.classifySecondBuy(in, res)
	case in.price < in.zone.Low && len(in.strokes) > 0:
		a.classifyFirstBuy(in, res)
	}
}

func (a *Analyzer) classifySell(in *classifyInput, res *model.AnalysisResult, sell sellFinding) {
	breakoutPct := 0.0
	if in.price < in.zone.Low && in.zone.Low > 0 {
		breakoutPct = abs((in.price - in.zone.Low) / in.zone.Low * 100)
	}

	score := a.policy.ScoreSell(ScoreContext{
		BreakoutPct: breakoutPct,
		VolumeRatio: volumeRatio(in.bars),
		ReboundPct:  sell.reboundPct,
		MarketTrend: in.trend,
	})
	res.Score = &score

	if sell.kind == "三卖" {
		res.Signal = fmt.Sprintf("三卖(评分:%s)", score.Grade)
		if score.Grade == "A" || score.Grade == "B" {
			res.Action = model.ActionSell
			res.RiskLevel = model.RiskHigh
		} else {
			res.Action = model.ActionReduce
			res.RiskLevel = model.RiskMedium
		}
	} else {
		res.Signal = model.SignalSell2
		res.Action = model.ActionReduce
		res.RiskLevel = model.RiskMedium
	}

	res.SellSignalInfo = sell.explanation
	res.Suggestion = fmt.Sprintf("%s | 预估成功率%.0f%% | %s", score.Action, score.Probability*100, sell.explanation)

	res.EntryPrice = in.price
	if lastUp, ok := lastStroke(in.strokes, model.StrokeUp); ok {
		res.StopLoss = lastUp.EndPrice * 1.02 // 2% above the rebound high
	} else {
		res.StopLoss = in.price * 1.05
	}
	res.StopLossPct = (res.StopLoss - in.price) / in.price * 100
	res.TargetPrice = in.minPrice * 0.95
	res.TargetPct = (res.TargetPrice - in.price) / in.price * 100
}

func (a *Analyzer) classifyThirdBuy(in *classifyInput, res *model.AnalysisResult) {
	lastUp, ok := lastStroke(in.strokes, model.StrokeUp)
	if !ok || lastUp.EndPrice <= in.zone.High {
		return
	}

	breakoutPct := (in.price - in.zone.High) / in.zone.High * 100
	distanceToMax := 0.0
	if in.maxPrice > 0 {
		distanceToMax = (in.maxPrice - in.price) / in.maxPrice * 100
	}

	th := DynamicThreshold(in.bars)
	valid, reason := ValidateBreakout(breakoutPct, th)
	if !valid {
		if breakoutPct >= th.BreakoutMax {
			res.Signal = model.SignalObserve
			res.Action = model.ActionWait
			res.RiskLevel = model.RiskHigh
			res.Suggestion = fmt.Sprintf("已突破%.1f%%（超过%s阈值%.0f%%），追高风险", breakoutPct, th.Description, th.BreakoutMax)
		} else {
			res.Signal = model.SignalWeakBreak
			res.Action = model.ActionWait
			res.RiskLevel = model.RiskMedium
			res.Suggestion = reason
		}
		return
	}

	score := a.policy.ScoreThirdBuy(ScoreContext{
		BreakoutPct:   breakoutPct,
		VolumeRatio:   volumeRatio(in.bars),
		DistanceToMax: distanceToMax,
		MarketTrend:   in.trend,
	})
	res.Score = &score

	if in.div.Present && in.div.Kind == model.DivergenceTop {
		res.Signal = fmt.Sprintf("三买+背驰(评分:%s)", score.Grade)
		res.Action = model.ActionReduce
		res.RiskLevel = model.RiskHigh
		res.DivergenceInfo = in.div.Explanation
		res.Suggestion = "三买但出现顶背驰，建议减仓而非加仓 | " + score.Action
	} else {
		res.Signal = fmt.Sprintf("三买(评分:%s)", score.Grade)
		switch score.Grade {
		case "A":
			res.Action = model.ActionBuy
			res.RiskLevel = model.RiskLow
		case "B":
			res.Action = model.ActionBuy
			res.RiskLevel = model.RiskMedium
		case "D":
			res.Action = model.ActionWait
			res.RiskLevel = model.RiskHigh
		default:
			res.Action = model.ActionWatch
			res.RiskLevel = model.RiskHigh
		}
		res.Suggestion = fmt.Sprintf("%s | 预估成功率%.0f%% | 突破%.1f%%", score.Action, score.Probability*100, breakoutPct)
	}

	res.EntryPrice = in.price
	res.StopLoss = math.Max(in.zone.High*0.98, in.price*0.95)
	res.StopLossPct = (res.StopLoss - in.price) / in.price * 100
	res.TargetPrice = in.maxPrice
	res.TargetPct = (res.TargetPrice - in.price) / in.price * 100

	if n := len(score.Details); n > 0 {
		if n > 3 {
			n = 3
		}
		res.Suggestion += "\n💡 " + strings.Join(score.Details[:n], " | ")
	}
}

func (a *Analyzer) classifySecondBuy(in *classifyInput, res *model.AnalysisResult) {
	recent := in.strokes[len(in.strokes)-3:]
	if recent[0].Direction != model.StrokeDown ||
		recent[1].Direction != model.StrokeUp ||
		recent[2].Direction != model.StrokeDown {
		return
	}

	firstBuyIdx := recent[0].EndIndex
	firstBuyLow := recent[0].EndPrice
	i := len(in.bars) - 1
	currentLow := in.bars[i].Low

	// Core acceptance: the pullback must not break the first-buy low.
	if currentLow <= firstBuyLow || i < 2 || firstBuyIdx < 2 {
		return
	}

	// A bottom fractal freshly confirmed at the current position, on the
	// original series.
	bottomFractal := in.bars[i-1].Low < in.bars[i-2].Low && in.bars[i-1].Low < in.bars[i].Low

	// Momentum fading: the histogram magnitude over the current pullback
	// window must be smaller than at the original low.
	currHist := abs(histogramSum(in.osc, i-2, i))
	prevHist := abs(histogramSum(in.osc, firstBuyIdx-2, firstBuyIdx))
	fading := currHist < prevHist

	if !bottomFractal || !fading {
		return
	}

	strong := currentLow > in.zone.High

	res.EntryPrice = in.price
	res.StopLoss = firstBuyLow * 0.98 // 2% below the reference low
	res.StopLossPct = (res.StopLoss - in.price) / in.price * 100
	if strong {
		res.TargetPrice = in.maxPrice
	} else {
		res.TargetPrice = in.zone.High
	}
	res.TargetPct = (res.TargetPrice - in.price) / in.price * 100

	if strong {
		res.Signal = model.SignalBuy2Strong
		res.Action = model.ActionBuy
		res.RiskLevel = model.RiskLow
		res.Suggestion = fmt.Sprintf("强力二买确认！回抽不破中枢上沿(¥%.2f)，底分型+MACD衰竭，高确定性买点", in.zone.High)
	} else {
		depth := 0.0
		if in.zone.High > in.zone.Low {
			depth = (in.zone.High - currentLow) / (in.zone.High - in.zone.Low) * 100
		}
		res.Signal = model.SignalBuy2Std
		res.Action = model.ActionBuy
		res.RiskLevel = model.RiskMedium
		res.Suggestion = fmt.Sprintf("标准二买确认！回抽进入中枢(%.1f%%)，底分型+MACD衰竭，有效买点", depth)
	}

	score := a.policy.ScoreSecondBuy(ScoreContext{
		CurrentPrice:  in.price,
		FirstBuyLow:   firstBuyLow,
		VolumeRatio:   volumeRatio(in.bars),
		BottomFractal: true,
		StopLoss:      res.StopLoss,
		TargetPrice:   res.TargetPrice,
		MarketTrend:   in.trend,
	})
	res.Score = &score
}

func (a *Analyzer) classifyFirstBuy(in *classifyInput, res *model.AnalysisResult) {
	lastDown, ok := lastStroke(in.strokes, model.StrokeDown)
	if !ok || lastDown.EndPrice <= 0 {
		return
	}

	recentLow := lastDown.EndPrice
	reboundPct := (in.price - recentLow) / recentLow * 100
	hasDiv := in.div.Present && in.div.Kind == model.DivergenceBottom

	if reboundPct <= 1 && !hasDiv {
		return
	}

	if hasDiv {
		res.Signal = model.SignalBuy1Div
		res.Action = model.ActionBuy
		res.RiskLevel = model.RiskMedium
		res.DivergenceInfo = in.div.Explanation
		res.Suggestion = "底背驰确认，反弹概率高"
	} else {
		res.Signal = model.SignalBuy1
		res.Action = model.ActionWatch
		res.RiskLevel = model.RiskHigh
		res.Suggestion = "超跌反弹，小仓位试水"
	}

	res.EntryPrice = in.price
	res.StopLoss = recentLow * 0.97 // 3% below the recent low
	res.StopLossPct = (res.StopLoss - in.price) / in.price * 100
	res.TargetPrice = in.zone.Low
	res.TargetPct = (res.TargetPrice - in.price) / in.price * 100

	if res.TargetPct < 3 && !hasDiv {
		res.Suggestion = "反弹空间有限，建议观望"
	}
}

func lastStroke(strokes []model.Stroke, dir model.StrokeDirection) (model.Stroke, bool) {
	for i := len(strokes) - 1; i >= 0; i-- {
		if strokes[i].Direction == dir {
			return strokes[i], true
		}
	}
	return model.Stroke{}, false
}
