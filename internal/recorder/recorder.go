package recorder

import (
	"time"

	"BreakoutSentinel/internal/model"
)

// RunRecord summarizes one full screening run.
type RunRecord struct {
	StartedAt time.Time
	Duration  time.Duration
	Total     int
	Analyzed  int
	Filtered  int
	Qualified int
	Signals   int
	Errors    int
	OK        bool
}

// AnalysisRecord holds one qualified instrument from a screening run.
type AnalysisRecord struct {
	Result *model.ScreenResult
}

// SignalRecord holds a confirmed breakout buy signal.
type SignalRecord struct {
	Result *model.ScreenResult
}

// Recorder persists screening history for later review.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordAnalysis(rec *AnalysisRecord) error
	RecordSignal(rec *SignalRecord) error
	Close() error
}
