package calculator

import "BreakoutSentinel/internal/model"

// macdSeries computes MACD = EMA(fast) - EMA(slow), the signal line as an
// EMA of MACD, and the histogram. cross flags histogram sign changes
// between consecutive bars: +1 golden, -1 dead.
func macdSeries(closes []float64, fast, slow, signal int) (macd, sig, hist []float64, cross []int) {
	n := len(closes)
	macd, sig, hist = nanSlice(n), nanSlice(n), nanSlice(n)
	cross = make([]int, n)

	emaFast := emaSeries(closes, fast)
	emaSlow := emaSeries(closes, slow)
	for i := 0; i < n; i++ {
		if model.Defined(emaFast[i]) && model.Defined(emaSlow[i]) {
			macd[i] = emaFast[i] - emaSlow[i]
		}
	}

	// Signal line smooths only the defined stretch of MACD, seeded with the
	// SMA of its first signal values.
	start := -1
	for i, v := range macd {
		if model.Defined(v) {
			start = i
			break
		}
	}
	if start < 0 || n-start < signal || signal <= 0 {
		return
	}
	seed := 0.0
	for i := start; i < start+signal; i++ {
		seed += macd[i]
	}
	seed /= float64(signal)
	sig[start+signal-1] = seed

	alpha := 2.0 / float64(signal+1)
	prev := seed
	for i := start + signal; i < n; i++ {
		prev = alpha*macd[i] + (1-alpha)*prev
		sig[i] = prev
	}

	for i := 0; i < n; i++ {
		if model.Defined(macd[i]) && model.Defined(sig[i]) {
			hist[i] = macd[i] - sig[i]
		}
	}
	for i := 1; i < n; i++ {
		if !model.Defined(hist[i]) || !model.Defined(hist[i-1]) {
			continue
		}
		switch {
		case hist[i-1] <= 0 && hist[i] > 0:
			cross[i] = 1
		case hist[i-1] >= 0 && hist[i] < 0:
			cross[i] = -1
		}
	}
	return
}
