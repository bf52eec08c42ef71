package screener

import (
	"context"
	"testing"
	"time"

	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/collector"
	"BreakoutSentinel/internal/model"
)

func flatSeries(n int, price, volume float64) []model.PriceBar {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = model.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: volume,
			Amount: price * volume,
		}
	}
	return bars
}

func breakoutSeries(n int, price, volume float64) []model.PriceBar {
	bars := flatSeries(n-1, price, volume)
	prev := bars[len(bars)-1]
	open := prev.Close
	close := open * 1.05
	return append(bars, model.PriceBar{
		Time:   prev.Time.AddDate(0, 0, 1),
		Open:   open,
		High:   close * 1.005,
		Low:    open,
		Close:  close,
		Volume: volume * 2.5,
		Amount: close * volume * 2.5,
	})
}

func testScreener() *Screener {
	fetcher := &collector.MockFetcher{
		Symbols: []model.StockInfo{
			{Code: "sh.600000", Name: "浦发银行"},
			{Code: "sz.000001", Name: "平安银行"},
			{Code: "sh.600519", Name: "贵州茅台"},
		},
		Bars: map[string][]model.PriceBar{
			"sh.600000": breakoutSeries(41, 10.0, 1_000_000), // breakout, should lead
			"sz.000001": flatSeries(41, 12.0, 1_000_000),     // quiet platform, below threshold
			"sh.600519": flatSeries(41, 900.0, 1_000_000),    // filtered by the price band
		},
	}
	analyzer := collector.NewAnalyzer(fetcher, calculator.DefaultConfig(), collector.Filter{
		LookbackDays: 41,
		MinPrice:     5,
		MaxPrice:     200,
		MinAmount:    1_000_000,
		RSIFloor:     0,
		RSICeiling:   100,
	})
	return New(analyzer, 2, 60, nil)
}

func TestRun_RanksAndCounts(t *testing.T) {
	s := testScreener()
	results, stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("total: expected 3, got %d", stats.Total)
	}
	if stats.Analyzed != 2 {
		t.Errorf("analyzed: expected 2, got %d", stats.Analyzed)
	}
	if stats.Filtered != 1 {
		t.Errorf("filtered: expected 1, got %d", stats.Filtered)
	}
	if stats.Qualified != 1 {
		t.Errorf("qualified: expected 1, got %d", stats.Qualified)
	}
	if stats.Signals != 1 {
		t.Errorf("signals: expected 1, got %d", stats.Signals)
	}
	if stats.Errors != 0 {
		t.Errorf("errors: expected 0, got %d", stats.Errors)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 qualifying result, got %d", len(results))
	}
	if results[0].Stock.Code != "sh.600000" {
		t.Errorf("expected the breakout instrument first, got %s", results[0].Stock.Code)
	}
	if !results[0].Latest.HasBreakout {
		t.Error("leading result should carry the breakout flag")
	}
}

func TestRun_SortsByScoreDescending(t *testing.T) {
	s := testScreener()
	// Lower the bar so the quiet platform qualifies too.
	s.ScoreThreshold = 1

	results, _, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Recommendation.Score > results[i-1].Recommendation.Score {
			t.Errorf("results out of order at %d: %.1f after %.1f",
				i, results[i].Recommendation.Score, results[i-1].Recommendation.Score)
		}
	}
}

func TestRun_CancelledContext(t *testing.T) {
	s := testScreener()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Run(ctx)
	if err == nil {
		t.Error("expected ctx.Err() from a cancelled run")
	}
}
