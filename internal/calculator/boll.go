package calculator

import (
	"github.com/montanaflynn/stats"
)

// bollSeries computes Bollinger Bands: mid is the SMA over period, the band
// is stdDev sample standard deviations. %B stays undefined when the band
// width is zero.
func bollSeries(closes []float64, period int, stdDev float64) (upper, mid, lower, width, pb []float64) {
	n := len(closes)
	mid = smaSeries(closes, period)
	upper, lower, width, pb = nanSlice(n), nanSlice(n), nanSlice(n), nanSlice(n)
	if period <= 1 || n < period {
		return
	}

	for i := period - 1; i < n; i++ {
		sd, err := stats.StandardDeviationSample(stats.Float64Data(closes[i-period+1 : i+1]))
		if err != nil {
			continue
		}
		band := stdDev * sd
		upper[i] = mid[i] + band
		lower[i] = mid[i] - band
		if mid[i] != 0 {
			width[i] = (upper[i] - lower[i]) / mid[i]
		}
		if band > 0 {
			pb[i] = (closes[i] - lower[i]) / (upper[i] - lower[i])
		}
	}
	return
}
