package calculator

import (
	"math"

	"BreakoutSentinel/internal/model"
)

// kdjSeries computes the KDJ stochastic oscillator over period bars.
// RSV = (close - lowestLow) / (highestHigh - lowestLow) * 100, neutral 50
// when the range is degenerate. K and D apply 1/smoothing weight to the
// newest value, seeded with the first defined RSV. J = 3K - 2D.
func kdjSeries(highs, lows, closes []float64, period, smoothing int) (k, d, j []float64) {
	n := len(closes)
	k, d, j = nanSlice(n), nanSlice(n), nanSlice(n)
	if period <= 0 || smoothing <= 0 || n < period {
		return
	}

	rsv := nanSlice(n)
	for i := period - 1; i < n; i++ {
		hi, lo := highs[i], lows[i]
		for t := i - period + 1; t < i; t++ {
			if highs[t] > hi {
				hi = highs[t]
			}
			if lows[t] < lo {
				lo = lows[t]
			}
		}
		if hi == lo {
			rsv[i] = 50
		} else {
			rsv[i] = (closes[i] - lo) / (hi - lo) * 100
		}
	}

	s := float64(smoothing)
	prevK, prevD := math.NaN(), math.NaN()
	for i := period - 1; i < n; i++ {
		if !model.Defined(prevK) {
			prevK = rsv[i]
			prevD = prevK
		} else {
			prevK = (rsv[i] + (s-1)*prevK) / s
			prevD = (prevK + (s-1)*prevD) / s
		}
		k[i] = prevK
		d[i] = prevD
		j[i] = 3*prevK - 2*prevD
	}
	return
}
