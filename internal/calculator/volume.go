package calculator

import (
	"github.com/montanaflynn/stats"
)

// volumeSeries computes the trailing average volume and the volume ratio
// (current volume / trailing average). Ratio stays undefined when the
// average is zero.
func volumeSeries(volumes []float64, period int) (ma, ratio []float64) {
	n := len(volumes)
	ma, ratio = nanSlice(n), nanSlice(n)
	if period <= 0 || n < period {
		return
	}
	for i := period - 1; i < n; i++ {
		m, err := stats.Mean(stats.Float64Data(volumes[i-period+1 : i+1]))
		if err != nil {
			continue
		}
		ma[i] = m
		if m > 0 {
			ratio[i] = volumes[i] / m
		}
	}
	return
}
