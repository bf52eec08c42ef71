package calculator

import (
	"math"

	"BreakoutSentinel/internal/model"
)

// platformSeries marks consolidation spans. Row i looks back over the last
// min(i+1, PlatformWindow) bars; the span is a platform iff it is at least
// MinPlatformDays long, its (high-low)/low volatility stays within
// MaxVolatility, and the three short MAs are cohesive on the latest bar.
func platformSeries(rows []model.IndicatorRow, cfg Config) {
	short, mid, long, ok := cfg.CohesionWindows()

	for i := range rows {
		length := i + 1
		if length > cfg.PlatformWindow {
			length = cfg.PlatformWindow
		}
		if length < 1 || length < cfg.MinPlatformDays {
			continue
		}

		hi := math.Inf(-1)
		lo := math.Inf(1)
		volSum := 0.0
		for t := i - length + 1; t <= i; t++ {
			if rows[t].Bar.High > hi {
				hi = rows[t].Bar.High
			}
			if rows[t].Bar.Low < lo {
				lo = rows[t].Bar.Low
			}
			volSum += rows[t].Bar.Volume
		}
		if lo <= 0 {
			continue
		}

		volatility := (hi - lo) / lo
		rows[i].PlatformHigh = hi
		rows[i].PlatformLow = lo
		rows[i].PlatformVolatility = volatility
		rows[i].PlatformAvgVolume = volSum / float64(length)

		rows[i].IsPlatform = volatility <= cfg.MaxVolatility &&
			ok && maCohesive(&rows[i], short, mid, long, cfg.MACohesion)
	}
}

// maCohesive checks that the short/medium MAs sit within threshold of each
// other: |MA_a - MA_b| / MA_b per adjacent pair.
func maCohesive(row *model.IndicatorRow, short, mid, long int, threshold float64) bool {
	maS, maM, maL := row.MA[short], row.MA[mid], row.MA[long]
	if !model.Defined(maS) || !model.Defined(maM) || !model.Defined(maL) {
		return false
	}
	if maM == 0 || maL == 0 {
		return false
	}
	return math.Abs(maS-maM)/maM <= threshold && math.Abs(maM-maL)/maL <= threshold
}

// breakoutSeries flags bars that break out of the platform ending on the
// previous bar: close above the platform high, volume at or above
// VolumeThreshold times the platform average, a bullish body gaining at
// least PriceThreshold, and a lower shadow no longer than the body.
func breakoutSeries(rows []model.IndicatorRow, cfg Config) {
	for i := 1; i < len(rows); i++ {
		prev := &rows[i-1]
		if !prev.IsPlatform || prev.PlatformAvgVolume <= 0 {
			continue
		}

		bar := rows[i].Bar
		body := bar.Close - bar.Open
		if bar.Open <= 0 || body <= 0 {
			continue
		}
		gain := body / bar.Open
		lowerShadow := math.Min(bar.Open, bar.Close) - bar.Low

		if bar.Close > prev.PlatformHigh &&
			bar.Volume >= cfg.VolumeThreshold*prev.PlatformAvgVolume &&
			gain >= cfg.PriceThreshold &&
			lowerShadow <= body {
			rows[i].HasBreakout = true
			rows[i].BreakoutStrength = breakoutStrength(bar.Volume/prev.PlatformAvgVolume, gain, cfg)
		}
	}
}

// breakoutStrength maps volume and price excess over their thresholds onto
// a 0-100 scale; each half saturates at twice its threshold.
func breakoutStrength(volumeRatio, gain float64, cfg Config) float64 {
	v := volumeRatio / (2 * cfg.VolumeThreshold)
	if v > 1 {
		v = 1
	}
	p := gain / (2 * cfg.PriceThreshold)
	if p > 1 {
		p = 1
	}
	s := 50*v + 50*p
	if s > 100 {
		s = 100
	}
	return s
}

// LatestPlatform returns the most recent consolidation span, or nil when no
// row qualifies.
func LatestPlatform(rows []model.IndicatorRow, cfg Config) *model.PlatformWindow {
	for i := len(rows) - 1; i >= 0; i-- {
		if !rows[i].IsPlatform {
			continue
		}
		length := i + 1
		if length > cfg.PlatformWindow {
			length = cfg.PlatformWindow
		}
		return &model.PlatformWindow{
			HighBound:     rows[i].PlatformHigh,
			LowBound:      rows[i].PlatformLow,
			Volatility:    rows[i].PlatformVolatility,
			Length:        length,
			AverageVolume: rows[i].PlatformAvgVolume,
		}
	}
	return nil
}
