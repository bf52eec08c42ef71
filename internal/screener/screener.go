package screener

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"BreakoutSentinel/internal/collector"
	"BreakoutSentinel/internal/metrics"
	"BreakoutSentinel/internal/model"
)

// RunStats summarizes one screening run.
type RunStats struct {
	StartedAt time.Time
	Duration  time.Duration
	Total     int // universe size
	Analyzed  int // ran through the indicator pipeline
	Filtered  int // skipped by pre/post filters
	Qualified int // score above threshold
	Signals   int // confirmed breakouts with a buy action
	Errors    int
}

// Screener fans per-symbol analysis out over a bounded worker pool. Every
// invocation of the pipeline is independent, so no ordering is required
// between instruments.
type Screener struct {
	Analyzer       *collector.Analyzer
	Workers        int
	ScoreThreshold float64
	Metrics        *metrics.Metrics // optional
}

// New creates a Screener.
func New(analyzer *collector.Analyzer, workers int, scoreThreshold float64, m *metrics.Metrics) *Screener {
	if workers <= 0 {
		workers = 1
	}
	return &Screener{
		Analyzer:       analyzer,
		Workers:        workers,
		ScoreThreshold: scoreThreshold,
		Metrics:        m,
	}
}

// Run screens the whole universe and returns qualifying results sorted by
// score descending. Cancelling ctx stops feeding new symbols; results
// gathered so far are returned alongside ctx.Err().
func (s *Screener) Run(ctx context.Context) ([]*model.ScreenResult, *RunStats, error) {
	stats := &RunStats{StartedAt: time.Now()}

	symbols, err := s.Analyzer.Fetcher.ListSymbols()
	if err != nil {
		return nil, stats, fmt.Errorf("list symbols: %w", err)
	}
	stats.Total = len(symbols)
	log.Printf("[INFO] screening universe of %d symbols with %d workers", stats.Total, s.Workers)

	jobs := make(chan model.StockInfo)
	var (
		mu      sync.Mutex
		results []*model.ScreenResult
	)

	var wg sync.WaitGroup
	for w := 0; w < s.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for stock := range jobs {
				res, err := s.Analyzer.Analyze(stock)

				mu.Lock()
				switch {
				case err != nil:
					stats.Errors++
					log.Printf("[WARN] analyze %s: %v", stock.Code, err)
				case res == nil:
					stats.Filtered++
				default:
					stats.Analyzed++
					if res.Recommendation.Score >= s.ScoreThreshold {
						stats.Qualified++
						results = append(results, res)
					}
				}
				done := stats.Errors + stats.Filtered + stats.Analyzed
				if done%50 == 0 {
					log.Printf("[INFO] screening progress: %d/%d", done, stats.Total)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, sym := range symbols {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- sym:
		}
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Recommendation.Score > results[j].Recommendation.Score
	})
	for _, r := range results {
		if r.Latest.HasBreakout &&
			(r.Recommendation.Action == model.ActionBuy || r.Recommendation.Action == model.ActionStrongBuy) {
			stats.Signals++
		}
	}
	stats.Duration = time.Since(stats.StartedAt)

	s.observe(stats)
	log.Printf("[INFO] screening done in %s: %d qualified, %d signals, %d errors",
		stats.Duration.Round(time.Millisecond), stats.Qualified, stats.Signals, stats.Errors)

	if ctx.Err() != nil {
		return results, stats, ctx.Err()
	}
	return results, stats, nil
}

func (s *Screener) observe(stats *RunStats) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.SymbolsAnalyzed.Add(float64(stats.Analyzed))
	s.Metrics.SymbolsFiltered.Add(float64(stats.Filtered))
	s.Metrics.SymbolsQualified.Add(float64(stats.Qualified))
	s.Metrics.SignalsTotal.Add(float64(stats.Signals))
	s.Metrics.AnalysisErrors.Add(float64(stats.Errors))
	s.Metrics.ScreenDuration.Observe(stats.Duration.Seconds())
	s.Metrics.LastQualified.Set(float64(stats.Qualified))
}
