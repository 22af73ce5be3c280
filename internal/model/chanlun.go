package model

// FractalKind distinguishes top and bottom fractals.
type FractalKind string

const (
	FractalTop    FractalKind = "top"
	FractalBottom FractalKind = "bottom"
)

// Fractal is a 3-bar local price extremum found in the merged series.
type Fractal struct {
	Position int // index into the MergedBar sequence
	Kind     FractalKind
	Price    float64
}

// StrokeDirection is the direction of a directional price swing.
type StrokeDirection string

const (
	StrokeUp   StrokeDirection = "up"
	StrokeDown StrokeDirection = "down"
)

// Stroke connects two alternating fractals. StartIndex and EndIndex reference
// positions in the original Bar sequence so the oscillator histogram can be
// sliced against stroke legs later.
type Stroke struct {
	Direction  StrokeDirection
	StartPrice float64
	EndPrice   float64
	StartIndex int
	EndIndex   int
}

// CentralZone is the estimated consolidation price band (zhongshu).
type CentralZone struct {
	Low  float64
	High float64
}

// OscillatorPoint holds the momentum oscillator values for one Bar.
type OscillatorPoint struct {
	FastEMA    float64
	SlowEMA    float64
	Value      float64
	SignalLine float64
	Histogram  float64
}

// DivergenceKind labels the direction of a momentum divergence.
type DivergenceKind string

const (
	DivergenceNone   DivergenceKind = "none"
	DivergenceBottom DivergenceKind = "bottom"
	DivergenceTop    DivergenceKind = "top"
)

// DivergenceFinding reports weakening momentum despite a new price extreme.
type DivergenceFinding struct {
	Present     bool
	Kind        DivergenceKind
	Strength    string
	Explanation string
}

// VolatilityLevel buckets instruments by realized volatility.
type VolatilityLevel string

const (
	VolatilityLow    VolatilityLevel = "low"
	VolatilityMedium VolatilityLevel = "medium"
	VolatilityHigh   VolatilityLevel = "high"
)

// VolatilityThreshold is the per-instrument breakout tolerance band derived
// from the ATR/price ratio. Percent values throughout.
type VolatilityThreshold struct {
	Level        VolatilityLevel
	BreakoutMin  float64
	BreakoutMax  float64
	BreakdownMin float64
	Description  string
}
