package collector

import (
	"time"

	"ChanSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.Bar // per symbol; generated when absent
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(symbol string, days int) ([]model.Bar, error) {
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return GenerateBars(m.Price, days), nil
}

// GenerateBars produces a gently rising synthetic daily series around
// basePrice, for mock data and tests.
func GenerateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:      time.Now().AddDate(0, 0, -(count - i)),
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000000,
			PctChange: 0.1,
		}
	}
	return bars
}
