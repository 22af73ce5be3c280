package model

// SignalScore is the multi-factor weighted scoring result attached to a
// classified signal.
type SignalScore struct {
	TotalScore  int
	Grade       string // A/B/C/D/E
	Action      string
	Probability float64  // empirical success-probability estimate
	Details     []string // per-factor rationale, ordered
}

// Signal category labels produced by the classifier.
const (
	SignalNone       = "无"
	SignalBuy1       = "一买"
	SignalBuy1Div    = "一买+背驰"
	SignalBuy2Strong = "强力二买"
	SignalBuy2Std    = "标准二买"
	SignalSell2      = "二卖"
	SignalObserve    = "突破后观察"
	SignalWeakBreak  = "突破不足"
)

// Action labels.
const (
	ActionBuy     = "买入"
	ActionSell    = "卖出"
	ActionReduce  = "减仓"
	ActionWatch   = "关注"
	ActionWait    = "观望"
)

// Risk levels.
const (
	RiskLow    = "低"
	RiskMedium = "中"
	RiskHigh   = "高"
)

// AnalysisResult aggregates everything one analysis run produced for a single
// instrument. It is the sole artifact handed to the presentation layer.
type AnalysisResult struct {
	Code   string
	Name   string
	Price  float64
	Change float64 // day percent change

	MaxPrice float64
	MinPrice float64

	TopCount    int
	BottomCount int
	StrokeCount int

	ZoneLow  float64
	ZoneHigh float64

	Signal string
	Action string

	EntryPrice  float64
	StopLoss    float64
	TargetPrice float64
	StopLossPct float64
	TargetPct   float64

	RiskLevel  string
	Suggestion string

	DivergenceInfo string
	SellSignalInfo string

	Score  *SignalScore
	Sector SectorInfo
}
