package collector

import "ChanSentinel/internal/model"

// StaticSectorLookup resolves membership from configuration tables loaded at
// process start. The tables are immutable after construction.
type StaticSectorLookup struct {
	bySymbol map[string]model.SectorInfo
}

// NewStaticSectorLookup builds a lookup from a symbol to sectors mapping and
// a sector to 5-day money-flow percentage mapping.
func NewStaticSectorLookup(membership map[string][]string, flows map[string]float64) *StaticSectorLookup {
	bySymbol := make(map[string]model.SectorInfo, len(membership))
	for symbol, sectors := range membership {
		if len(sectors) == 0 {
			continue
		}
		info := model.SectorInfo{
			Sectors: sectors,
			Main:    sectors[0],
			Found:   true,
		}
		// Report the strongest flow among the instrument's sectors.
		for _, s := range sectors {
			if flow, ok := flows[s]; ok && flow > info.FlowPct {
				info.FlowPct = flow
				info.Main = s
			}
		}
		bySymbol[symbol] = info
	}
	return &StaticSectorLookup{bySymbol: bySymbol}
}

func (l *StaticSectorLookup) Lookup(symbol string) (model.SectorInfo, error) {
	info, ok := l.bySymbol[symbol]
	if !ok {
		return model.SectorInfo{}, nil
	}
	return info, nil
}

// NoopSectorLookup reports no membership for any symbol.
type NoopSectorLookup struct{}

func (NoopSectorLookup) Lookup(string) (model.SectorInfo, error) {
	return model.SectorInfo{}, nil
}
