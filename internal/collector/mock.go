package collector

import (
	"time"

	"BreakoutSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Symbols []model.StockInfo
	Bars    map[string][]model.PriceBar
	Price   float64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) ListSymbols() ([]model.StockInfo, error) {
	if m.Symbols != nil {
		return m.Symbols, nil
	}
	return []model.StockInfo{{Code: "sh.600000", Name: "浦发银行"}}, nil
}

func (m *MockFetcher) FetchDailyBars(symbol string, days int) ([]model.PriceBar, error) {
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	base := m.Price
	if base == 0 {
		base = 10.0
	}
	return GenerateMockBars(base, days), nil
}

// GenerateMockBars produces a deterministic gently-drifting series.
func GenerateMockBars(basePrice float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	prev := basePrice
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Time:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			PrevClose: prev,
			Volume:    1_000_000,
			Amount:    1_000_000 * p,
		}
		prev = p
	}
	return bars
}
