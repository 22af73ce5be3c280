package model

import "time"

// Bar represents a single daily candlestick as returned by the data provider.
// Bars are ordered ascending by date and never mutated after fetch.
type Bar struct {
	Date      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	PctChange float64
}

// MergedBar is one or more consecutive Bars collapsed by the inclusion rule.
// It is bar-shaped but carries no back-reference to its source bars.
type MergedBar struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Instrument identifies one tradable instrument in a scan batch.
type Instrument struct {
	Code string
	Name string
}

// SectorInfo holds optional industry membership for display grouping.
// Found distinguishes a genuine absence from a lookup that never ran.
type SectorInfo struct {
	Sectors []string
	Main    string
	FlowPct float64 // 5-day sector money-flow percentage
	Found   bool

	Theme       string // theme group containing the main sector, if any
	ThemeWeight float64
}
