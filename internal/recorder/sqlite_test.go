package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"BreakoutSentinel/internal/model"
)

func sampleResult() *model.ScreenResult {
	return &model.ScreenResult{
		Stock:        model.StockInfo{Code: "sh.600000", Name: "浦发银行"},
		LatestPrice:  10.5,
		LatestAmount: 26_250_000,
		Latest: model.IndicatorRow{
			RSI:              72,
			K:                68,
			D:                55,
			J:                94,
			VolumeRatio:      2.4,
			HasBreakout:      true,
			BreakoutStrength: 75,
		},
		Platform: &model.PlatformWindow{
			HighBound:  10.0,
			LowBound:   9.6,
			Volatility: 0.042,
			Length:     20,
		},
		Recommendation: &model.Recommendation{
			Score:      77,
			Action:     model.ActionBuy,
			Confidence: 0.71,
			Reasons:    []string{"放量突破平台(上沿10.00)，突破强度: 75分", "均线多头排列"},
		},
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer r.Close()

	if err := r.RecordRun(&RunRecord{
		StartedAt: time.Now(),
		Duration:  42 * time.Second,
		Total:     5000,
		Analyzed:  1200,
		Filtered:  3780,
		Qualified: 12,
		Signals:   3,
		Errors:    20,
		OK:        true,
	}); err != nil {
		t.Errorf("record run: %v", err)
	}

	res := sampleResult()
	if err := r.RecordAnalysis(&AnalysisRecord{Result: res}); err != nil {
		t.Errorf("record analysis: %v", err)
	}
	if err := r.RecordSignal(&SignalRecord{Result: res}); err != nil {
		t.Errorf("record signal: %v", err)
	}
}

func TestSQLiteRecorder_NilPlatform(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer r.Close()

	res := sampleResult()
	res.Platform = nil
	if err := r.RecordAnalysis(&AnalysisRecord{Result: res}); err != nil {
		t.Errorf("record analysis without a platform: %v", err)
	}
	if err := r.RecordSignal(&SignalRecord{Result: res}); err != nil {
		t.Errorf("record signal without a platform: %v", err)
	}
}

func TestSQLiteRecorder_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	if err := r.RecordRun(&RunRecord{StartedAt: time.Now(), OK: true}); err != nil {
		t.Errorf("record run: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r2, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("reopen recorder: %v", err)
	}
	defer r2.Close()
	if err := r2.RecordRun(&RunRecord{StartedAt: time.Now(), OK: false}); err != nil {
		t.Errorf("record run after reopen: %v", err)
	}
}
