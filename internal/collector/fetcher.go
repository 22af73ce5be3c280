package collector

import "ChanSentinel/internal/model"

// Fetcher defines the interface for fetching daily market data. A fetcher
// returning an empty bar slice with a nil error means the provider has no
// data for the instrument; callers skip it rather than treating it as a
// failure.
type Fetcher interface {
	FetchDailyBars(symbol string, days int) ([]model.Bar, error)
	Name() string
}

// SectorLookup resolves optional industry membership for display grouping.
// Absence of data is reported through SectorInfo.Found, not an error; the
// error return is reserved for transport-level failures.
type SectorLookup interface {
	Lookup(symbol string) (model.SectorInfo, error)
}
