package calculator

import "sort"

// Config carries every numeric parameter of the indicator pipeline.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	MAWindows  []int // simple moving average windows, ascending
	EMAWindows []int // exponential moving average windows

	BollPeriod int
	BollStdDev float64

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	KDJPeriod    int
	KDJSmoothing int // weight 1/KDJSmoothing goes to the newest value

	RSIPeriod    int
	VolumePeriod int // trailing window for the volume average

	PlatformWindow  int
	MaxVolatility   float64 // (high-low)/low ceiling over the platform span
	MinPlatformDays int
	MACohesion      float64 // max pairwise MA bias inside a platform

	VolumeThreshold float64 // breakout volume vs platform average volume
	PriceThreshold  float64 // breakout minimum (close-open)/open gain
}

// DefaultConfig returns the standard platform-breakout parameters.
func DefaultConfig() Config {
	return Config{
		MAWindows:  []int{5, 10, 20, 30},
		EMAWindows: []int{12, 26},

		BollPeriod: 20,
		BollStdDev: 2.0,

		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,

		KDJPeriod:    9,
		KDJSmoothing: 3,

		RSIPeriod:    14,
		VolumePeriod: 20,

		PlatformWindow:  20,
		MaxVolatility:   0.15,
		MinPlatformDays: 15,
		MACohesion:      0.03,

		VolumeThreshold: 2.0,
		PriceThreshold:  0.03,
	}
}

// MinBars returns the number of bars needed before the latest row carries
// every indicator column. Callers should gate on this before scoring.
func (c Config) MinBars() int {
	max := 0
	consider := func(n int) {
		if n > max {
			max = n
		}
	}
	for _, w := range c.MAWindows {
		consider(w)
	}
	for _, w := range c.EMAWindows {
		consider(w)
	}
	consider(c.BollPeriod)
	consider(c.MACDSlow + c.MACDSignal - 1)
	consider(c.KDJPeriod)
	consider(c.RSIPeriod + 1)
	consider(c.VolumePeriod)
	consider(c.PlatformWindow)
	return max + 1
}

// CohesionWindows returns the three shortest configured MA windows, which
// define the platform MA-cohesion test and the bullish-alignment rule.
func (c Config) CohesionWindows() (short, mid, long int, ok bool) {
	if len(c.MAWindows) < 3 {
		return 0, 0, 0, false
	}
	ws := append([]int(nil), c.MAWindows...)
	sort.Ints(ws)
	return ws[0], ws[1], ws[2], true
}
