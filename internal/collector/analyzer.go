package collector

import (
	"fmt"
	"log"
	"strings"

	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/strategy"
)

// Filter holds the per-instrument screening gates applied around the
// indicator pipeline.
type Filter struct {
	LookbackDays int
	MinPrice     float64
	MaxPrice     float64
	MinAmount    float64 // latest-day turnover floor, CNY
	IncludeST    bool
	RSIFloor     float64
	RSICeiling   float64
}

// Analyzer runs fetch -> filter -> indicators -> score for one instrument.
type Analyzer struct {
	Fetcher Fetcher
	Config  calculator.Config
	Scorer  *strategy.Scorer
	Filter  Filter
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(fetcher Fetcher, cfg calculator.Config, filter Filter) *Analyzer {
	return &Analyzer{
		Fetcher: fetcher,
		Config:  cfg,
		Scorer:  strategy.NewScorer(cfg),
		Filter:  filter,
	}
}

// Analyze screens one instrument. A nil result with nil error means the
// instrument was filtered out; errors cover fetch failures and
// insufficient history.
func (a *Analyzer) Analyze(stock model.StockInfo) (*model.ScreenResult, error) {
	if !a.Filter.IncludeST && strings.Contains(stock.Name, "ST") {
		return nil, nil
	}

	bars, err := a.Fetcher.FetchDailyBars(stock.Code, a.Filter.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) < a.Config.MinBars() {
		return nil, fmt.Errorf("%s has %d bars: %w", stock.Code, len(bars), calculator.ErrInsufficientHistory)
	}

	latestBar := bars[len(bars)-1]
	if latestBar.Suspended || (latestBar.SpecialTreatment && !a.Filter.IncludeST) {
		return nil, nil
	}
	if latestBar.Close < a.Filter.MinPrice || latestBar.Close > a.Filter.MaxPrice {
		return nil, nil
	}
	if a.Filter.MinAmount > 0 && latestBar.Amount < a.Filter.MinAmount {
		return nil, nil
	}

	rows, dropped := calculator.Compute(bars, a.Config)
	for _, d := range dropped {
		log.Printf("[WARN] %s: dropped %s", stock.Code, d)
	}
	if len(rows) < a.Config.MinBars() {
		return nil, fmt.Errorf("%s has %d usable bars: %w", stock.Code, len(rows), calculator.ErrInsufficientHistory)
	}

	latest := rows[len(rows)-1]
	platform := calculator.LatestPlatform(rows, a.Config)
	rec, err := a.Scorer.Score(&latest, platform)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", stock.Code, err)
	}

	// Post filters: RSI band and a confirmed pattern (platform or breakout).
	if latest.RSI < a.Filter.RSIFloor || latest.RSI > a.Filter.RSICeiling {
		return nil, nil
	}
	if !latest.IsPlatform && !latest.HasBreakout {
		return nil, nil
	}

	return &model.ScreenResult{
		Stock:          stock,
		LatestPrice:    latestBar.Close,
		LatestAmount:   latestBar.Amount,
		Latest:         latest,
		Platform:       platform,
		Recommendation: rec,
	}, nil
}
