package calculator

import (
	"math"
	"testing"

	"BreakoutSentinel/internal/model"
)

func TestSMASeries_Basic(t *testing.T) {
	out := smaSeries([]float64{1, 2, 3, 4, 5}, 3)
	if model.Defined(out[0]) || model.Defined(out[1]) {
		t.Error("SMA should be undefined before the window fills")
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if got := out[i+2]; math.Abs(got-w) > 1e-9 {
			t.Errorf("SMA[%d]: expected %.1f, got %.4f", i+2, w, got)
		}
	}
}

func TestEMASeries_ConstantInput(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 42.0
	}
	out := emaSeries(values, 12)
	for i := 0; i < 11; i++ {
		if model.Defined(out[i]) {
			t.Fatalf("EMA[%d] should be undefined", i)
		}
	}
	for i := 11; i < len(out); i++ {
		if math.Abs(out[i]-42.0) > 1e-9 {
			t.Errorf("EMA[%d] of constant input: expected 42, got %.4f", i, out[i])
		}
	}
}

func TestRSISeries_AllGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 10 + float64(i)*0.1
	}
	out := rsiSeries(closes, 14)
	for i := 0; i < 14; i++ {
		if model.Defined(out[i]) {
			t.Fatalf("RSI[%d] should be undefined", i)
		}
	}
	if out[len(out)-1] != 100 {
		t.Errorf("RSI with zero losses: expected 100, got %.2f", out[len(out)-1])
	}
}

func TestRSISeries_Bounds(t *testing.T) {
	closes := []float64{10, 10.5, 10.2, 10.8, 10.4, 11, 10.7, 11.2, 10.9, 11.5,
		11.1, 11.8, 11.4, 12, 11.6, 12.2, 11.9, 12.5, 12.1, 12.8}
	out := rsiSeries(closes, 14)
	for i, v := range out {
		if !model.Defined(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Errorf("RSI[%d] out of [0,100]: %.2f", i, v)
		}
	}
}

func TestBollSeries_FlatInput(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50.0
	}
	upper, mid, lower, width, pb := bollSeries(closes, 20, 2.0)
	last := len(closes) - 1
	if upper[last] != mid[last] || lower[last] != mid[last] {
		t.Errorf("flat input should collapse the band: upper=%.2f mid=%.2f lower=%.2f",
			upper[last], mid[last], lower[last])
	}
	if width[last] != 0 {
		t.Errorf("flat input band width: expected 0, got %.4f", width[last])
	}
	if model.Defined(pb[last]) {
		t.Error("%B must stay undefined when the band has zero width")
	}
}

func TestBollSeries_PBIdentity(t *testing.T) {
	closes := []float64{10, 10.4, 10.1, 10.6, 10.2, 10.8, 10.3, 10.9, 10.5, 11,
		10.6, 11.1, 10.7, 11.2, 10.8, 11.3, 10.9, 11.4, 11, 11.5, 11.2, 11.6}
	upper, _, lower, _, pb := bollSeries(closes, 20, 2.0)
	for i := 19; i < len(closes); i++ {
		if !model.Defined(pb[i]) {
			t.Fatalf("%%B[%d] should be defined", i)
		}
		back := lower[i] + pb[i]*(upper[i]-lower[i])
		if math.Abs(back-closes[i]) > 1e-9 {
			t.Errorf("%%B[%d] identity broken: close=%.4f reconstructed=%.4f", i, closes[i], back)
		}
	}
}

func TestKDJSeries_DegenerateRange(t *testing.T) {
	n := 15
	highs, lows, closes := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i], lows[i], closes[i] = 20, 20, 20
	}
	k, d, j := kdjSeries(highs, lows, closes, 9, 3)
	last := n - 1
	if k[last] != 50 || d[last] != 50 || j[last] != 50 {
		t.Errorf("degenerate range: expected K=D=J=50, got K=%.1f D=%.1f J=%.1f",
			k[last], d[last], j[last])
	}
}

func TestKDJSeries_Uptrend(t *testing.T) {
	n := 30
	highs, lows, closes := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		base := 10 + float64(i)*0.3
		lows[i] = base - 0.1
		highs[i] = base + 0.2
		closes[i] = base + 0.15
	}
	k, d, _ := kdjSeries(highs, lows, closes, 9, 3)
	last := n - 1
	if k[last] < 0 || k[last] > 100 || d[last] < 0 || d[last] > 100 {
		t.Errorf("K/D out of [0,100]: K=%.1f D=%.1f", k[last], d[last])
	}
	if k[last] <= d[last] {
		t.Errorf("sustained uptrend should keep K above D: K=%.1f D=%.1f", k[last], d[last])
	}
}

func TestMACDSeries_GoldenCrossAfterReversal(t *testing.T) {
	var closes []float64
	for i := 0; i < 40; i++ {
		closes = append(closes, 20-float64(i)*0.1)
	}
	for i := 0; i < 40; i++ {
		closes = append(closes, 16+float64(i)*0.15)
	}
	macd, sig, hist, cross := macdSeries(closes, 12, 26, 9)

	golden := false
	for i := 40; i < len(closes); i++ {
		if cross[i] == 1 {
			golden = true
			break
		}
	}
	if !golden {
		t.Error("expected a golden cross after the reversal")
	}

	last := len(closes) - 1
	if !model.Defined(hist[last]) || hist[last] <= 0 {
		t.Errorf("expected positive histogram at the end of the rally, got %.4f", hist[last])
	}
	if math.Abs(hist[last]-(macd[last]-sig[last])) > 1e-9 {
		t.Error("histogram must equal MACD minus signal")
	}
}

func TestVolumeSeries_RatioAndZeroAverage(t *testing.T) {
	volumes := []float64{100, 100, 100, 100, 300}
	ma, ratio := volumeSeries(volumes, 5)
	if math.Abs(ma[4]-140) > 1e-9 {
		t.Errorf("volume MA: expected 140, got %.2f", ma[4])
	}
	if math.Abs(ratio[4]-300.0/140.0) > 1e-9 {
		t.Errorf("volume ratio: expected %.4f, got %.4f", 300.0/140.0, ratio[4])
	}

	zeros := []float64{0, 0, 0}
	_, zr := volumeSeries(zeros, 3)
	if model.Defined(zr[2]) {
		t.Error("ratio must stay undefined when the average volume is zero")
	}
}
