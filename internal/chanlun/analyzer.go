package chanlun

import (
	"ChanSentinel/internal/calculator"
	"ChanSentinel/internal/model"
)

// Minimum input preconditions. The full pipeline needs enough bars for the
// oscillator; fractal/stroke construction needs at least a handful.
const (
	MinBarsForSignal  = 20
	MinBarsForStrokes = 5
)

// Analyzer runs the full analytical pipeline on one instrument's daily bars:
// candle merging, fractal detection, stroke construction, zone estimation,
// oscillator, divergence, threshold derivation, signal classification and
// scoring. Stateless across calls; safe for concurrent use.
type Analyzer struct {
	policy *ScorePolicy
}

// NewAnalyzer creates an Analyzer. A nil policy selects the default tables.
func NewAnalyzer(policy *ScorePolicy) *Analyzer {
	if policy == nil {
		policy = DefaultScorePolicy()
	}
	return &Analyzer{policy: policy}
}

// Analyze produces the AnalysisResult for one instrument, or
// ErrInsufficientData when the history is too short for any signal. A
// malformed bar yields a DataShapeError.
func (a *Analyzer) Analyze(code, name string, bars []model.Bar) (*model.AnalysisResult, error) {
	if len(bars) < MinBarsForSignal {
		return nil, ErrInsufficientData
	}
	if err := validateBars(bars); err != nil {
		return nil, err
	}

	last := bars[len(bars)-1]
	maxPrice, minPrice, _ := calculator.PriceRange(bars)

	merged, sources := Merge(bars)
	fractals, tops, bottoms := DetectFractals(merged)
	strokes := BuildStrokes(fractals, sources)
	zone := EstimateZone(bars)
	osc := ComputeMACD(bars)
	div := DetectDivergence(strokes, zone, last.Close)

	res := &model.AnalysisResult{
		Code:        code,
		Name:        name,
		Price:       last.Close,
		Change:      last.PctChange,
		MaxPrice:    maxPrice,
		MinPrice:    minPrice,
		TopCount:    tops,
		BottomCount: bottoms,
		StrokeCount: len(strokes),
		ZoneLow:     zone.Low,
		ZoneHigh:    zone.High,
		Signal:      model.SignalNone,
		Action:      model.ActionWait,
		RiskLevel:   model.RiskMedium,
	}

	a.classify(&classifyInput{
		bars:     bars,
		osc:      osc,
		strokes:  strokes,
		zone:     zone,
		div:      div,
		price:    last.Close,
		maxPrice: maxPrice,
		minPrice: minPrice,
		trend:    calculator.Trend(bars),
	}, res)

	return res, nil
}

func validateBars(bars []model.Bar) error {
	for i, b := range bars {
		switch {
		case b.Date.IsZero():
			return &DataShapeError{Index: i, Reason: "missing date"}
		case b.High < b.Low:
			return &DataShapeError{Index: i, Reason: "high below low"}
		case b.Close <= 0 || b.Open <= 0:
			return &DataShapeError{Index: i, Reason: "non-positive price"}
		case b.Volume < 0:
			return &DataShapeError{Index: i, Reason: "negative volume"}
		}
	}
	return nil
}

// volumeRatio compares the latest bar's volume to the trailing 20-bar mean.
// A zero mean substitutes a neutral denominator instead of dividing by zero.
func volumeRatio(bars []model.Bar) float64 {
	n := len(bars)
	if n == 0 {
		return 1
	}
	window := 20
	if n < window {
		window = n
	}
	var sum float64
	for i := n - window; i < n; i++ {
		sum += bars[i].Volume
	}
	mean := sum / float64(window)
	if mean <= 0 {
		mean = 1
	}
	return bars[n-1].Volume / mean
}
