package calculator

import (
	"math"
	"testing"

	"BreakoutSentinel/internal/model"
)

// sameValue treats two undefined cells as equal.
func sameValue(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

func TestCompute_DropsInvalidBars(t *testing.T) {
	bars := flatBars(10, 10.0, 1000)
	bars[2].Close = -1
	bars[5].High = 9.0
	bars[5].Low = 9.5
	bars[7].Volume = math.NaN()

	rows, dropped := Compute(bars, DefaultConfig())
	if len(dropped) != 3 {
		t.Fatalf("expected 3 dropped bars, got %d: %v", len(dropped), dropped)
	}
	if len(rows) != 7 {
		t.Fatalf("expected 7 surviving rows, got %d", len(rows))
	}
	wantReasons := map[int]string{2: "non-positive price", 5: "high below low", 7: "negative or non-finite volume"}
	for _, d := range dropped {
		if want := wantReasons[d.Index]; d.Reason != want {
			t.Errorf("bar %d: expected reason %q, got %q", d.Index, want, d.Reason)
		}
	}
}

func TestCompute_UndefinedUntilWindowsFill(t *testing.T) {
	cfg := DefaultConfig()
	rows, _ := Compute(flatBars(cfg.MinBars(), 10.0, 1000), cfg)

	first := rows[0]
	for _, w := range cfg.MAWindows {
		if model.Defined(first.MA[w]) {
			t.Errorf("MA%d defined on the first row", w)
		}
	}
	if model.Defined(first.RSI) || model.Defined(first.K) || model.Defined(first.VolumeRatio) {
		t.Error("first row must carry undefined oscillators")
	}

	last := rows[len(rows)-1]
	for _, w := range cfg.MAWindows {
		if !model.Defined(last.MA[w]) {
			t.Errorf("MA%d undefined after MinBars rows", w)
		}
	}
	for name, v := range map[string]float64{
		"RSI": last.RSI, "K": last.K, "D": last.D,
		"VolumeRatio": last.VolumeRatio, "MACDHistogram": last.MACDHistogram,
	} {
		if !model.Defined(v) {
			t.Errorf("%s undefined after MinBars rows", name)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	bars := flatBars(40, 12.0, 1500)
	for i := range bars {
		bars[i].Close = 12 + 0.3*math.Sin(float64(i)/3)
		bars[i].High = bars[i].Close + 0.2
		bars[i].Low = bars[i].Close - 0.2
		bars[i].Open = bars[i].Close - 0.05
		bars[i].Volume = 1500 + 100*float64(i%5)
	}
	cfg := DefaultConfig()
	a, _ := Compute(bars, cfg)
	b, _ := Compute(bars, cfg)
	if len(a) != len(b) {
		t.Fatalf("row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		cells := [][2]float64{
			{a[i].RSI, b[i].RSI}, {a[i].K, b[i].K}, {a[i].D, b[i].D},
			{a[i].MACDHistogram, b[i].MACDHistogram},
			{a[i].VolumeRatio, b[i].VolumeRatio},
			{a[i].PlatformVolatility, b[i].PlatformVolatility},
			{a[i].BreakoutStrength, b[i].BreakoutStrength},
		}
		for _, w := range cfg.MAWindows {
			cells = append(cells, [2]float64{a[i].MA[w], b[i].MA[w]})
		}
		for _, c := range cells {
			if !sameValue(c[0], c[1]) {
				t.Fatalf("row %d differs between identical runs: %v vs %v", i, c[0], c[1])
			}
		}
		if a[i].IsPlatform != b[i].IsPlatform || a[i].HasBreakout != b[i].HasBreakout {
			t.Fatalf("row %d flags differ between identical runs", i)
		}
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	rows, dropped := Compute(nil, DefaultConfig())
	if len(rows) != 0 || len(dropped) != 0 {
		t.Errorf("empty input: expected no rows and no drops, got %d/%d", len(rows), len(dropped))
	}
}

func TestMinBars_CoversSlowestWindow(t *testing.T) {
	cfg := DefaultConfig()
	// MACD needs slow+signal-1 bars for the signal line; everything else
	// is shorter with the default windows.
	want := cfg.MACDSlow + cfg.MACDSignal - 1 + 1
	if got := cfg.MinBars(); got != want {
		t.Errorf("MinBars: expected %d, got %d", want, got)
	}
}
