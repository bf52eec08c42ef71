package collector

import "BreakoutSentinel/internal/model"

// Fetcher defines the interface for pulling market data from a vendor.
type Fetcher interface {
	// ListSymbols returns the tradable universe.
	ListSymbols() ([]model.StockInfo, error)
	// FetchDailyBars returns up to `days` daily bars, ascending by time.
	FetchDailyBars(symbol string, days int) ([]model.PriceBar, error)
	Name() string
}
