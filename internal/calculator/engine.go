package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"BreakoutSentinel/internal/model"
)

// ErrInsufficientHistory signals that fewer bars were supplied than the
// configured windows require.
var ErrInsufficientHistory = errors.New("insufficient history for configured windows")

// DroppedBar reports an input row rejected during validation.
type DroppedBar struct {
	Index  int
	Time   time.Time
	Reason string
}

func (d DroppedBar) String() string {
	return fmt.Sprintf("bar %d (%s): %s", d.Index, d.Time.Format("2006-01-02"), d.Reason)
}

// Compute derives the full indicator table from raw daily bars. It is a pure
// function of its inputs: same bars and config always yield the same rows.
// Invalid bars are dropped and reported; surviving rows keep input order.
// Early rows carry undefined columns until each window is satisfied, so
// callers must gate on sufficiency (see Config.MinBars) before relying on
// the latest row.
func Compute(bars []model.PriceBar, cfg Config) ([]model.IndicatorRow, []DroppedBar) {
	clean := make([]model.PriceBar, 0, len(bars))
	var dropped []DroppedBar
	for i, b := range bars {
		if reason := validateBar(b); reason != "" {
			dropped = append(dropped, DroppedBar{Index: i, Time: b.Time, Reason: reason})
			continue
		}
		clean = append(clean, b)
	}

	n := len(clean)
	rows := make([]model.IndicatorRow, n)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range clean {
		rows[i] = newRow(b, cfg)
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
	}
	if n == 0 {
		return rows, dropped
	}

	for _, w := range cfg.MAWindows {
		series := smaSeries(closes, w)
		for i := range rows {
			rows[i].MA[w] = series[i]
		}
	}
	for _, w := range cfg.EMAWindows {
		series := emaSeries(closes, w)
		for i := range rows {
			rows[i].EMA[w] = series[i]
		}
	}

	upper, mid, lower, width, pb := bollSeries(closes, cfg.BollPeriod, cfg.BollStdDev)
	macd, sig, hist, cross := macdSeries(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	k, d, j := kdjSeries(highs, lows, closes, cfg.KDJPeriod, cfg.KDJSmoothing)
	rsi := rsiSeries(closes, cfg.RSIPeriod)
	volMA, volRatio := volumeSeries(volumes, cfg.VolumePeriod)

	for i := range rows {
		rows[i].BollUpper = upper[i]
		rows[i].BollMid = mid[i]
		rows[i].BollLower = lower[i]
		rows[i].BollWidth = width[i]
		rows[i].BollPB = pb[i]
		rows[i].MACD = macd[i]
		rows[i].MACDSignal = sig[i]
		rows[i].MACDHistogram = hist[i]
		rows[i].MACDCross = cross[i]
		rows[i].K = k[i]
		rows[i].D = d[i]
		rows[i].J = j[i]
		rows[i].RSI = rsi[i]
		rows[i].VolumeMA = volMA[i]
		rows[i].VolumeRatio = volRatio[i]
	}

	platformSeries(rows, cfg)
	breakoutSeries(rows, cfg)
	return rows, dropped
}

func newRow(b model.PriceBar, cfg Config) model.IndicatorRow {
	nan := model.Undefined()
	return model.IndicatorRow{
		Bar:                b,
		MA:                 make(map[int]float64, len(cfg.MAWindows)),
		EMA:                make(map[int]float64, len(cfg.EMAWindows)),
		BollUpper:          nan,
		BollMid:            nan,
		BollLower:          nan,
		BollWidth:          nan,
		BollPB:             nan,
		MACD:               nan,
		MACDSignal:         nan,
		MACDHistogram:      nan,
		K:                  nan,
		D:                  nan,
		J:                  nan,
		RSI:                nan,
		VolumeMA:           nan,
		VolumeRatio:        nan,
		PlatformHigh:       nan,
		PlatformLow:        nan,
		PlatformVolatility: nan,
		PlatformAvgVolume:  nan,
	}
}

// validateBar returns a non-empty reason when the bar must be excluded.
func validateBar(b model.PriceBar) string {
	for _, p := range [...]float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return "non-finite price"
		}
		if p <= 0 {
			return "non-positive price"
		}
	}
	if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) || b.Volume < 0 {
		return "negative or non-finite volume"
	}
	if b.High < b.Low {
		return "high below low"
	}
	return ""
}
