package model

import "math"

// Undefined is the sentinel for indicator values that lack enough history.
// Indicator columns are NaN until their full window is available.
func Undefined() float64 { return math.NaN() }

// Defined reports whether an indicator value has been computed.
func Defined(v float64) bool { return !math.IsNaN(v) }

// IndicatorRow is a PriceBar extended with computed indicator columns.
// Every column at row i depends only on bars [i-window+1, i]; any float
// column may be NaN when fewer than window bars of history exist.
type IndicatorRow struct {
	Bar PriceBar

	MA  map[int]float64 // simple moving averages keyed by window
	EMA map[int]float64 // exponential moving averages keyed by window

	BollUpper float64
	BollMid   float64
	BollLower float64
	BollWidth float64
	BollPB    float64 // %B, NaN when the band is degenerate

	MACD          float64
	MACDSignal    float64
	MACDHistogram float64
	MACDCross     int // +1 golden cross, -1 dead cross, 0 none

	K float64
	D float64
	J float64

	RSI float64

	VolumeMA    float64
	VolumeRatio float64 // current volume / trailing average volume

	PlatformHigh       float64
	PlatformLow        float64
	PlatformVolatility float64
	PlatformAvgVolume  float64
	IsPlatform         bool

	HasBreakout      bool
	BreakoutStrength float64 // 0-100, 0 unless HasBreakout
}

// PlatformWindow describes the consolidation span backing a breakout signal.
type PlatformWindow struct {
	HighBound     float64
	LowBound      float64
	Volatility    float64 // (high-low)/low
	Length        int     // span length in trading days
	AverageVolume float64
}
