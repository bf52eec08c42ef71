package strategy

import (
	"errors"

	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/model"
)

// ErrDataInsufficient signals that the latest row lacks required indicator
// columns; callers must gate on indicator sufficiency before scoring.
var ErrDataInsufficient = errors.New("indicator data insufficient for scoring")

// Scorer evaluates the weighted breakout rule table against the latest
// indicator row. It holds no per-call state.
type Scorer struct {
	cfg calculator.Config
}

// NewScorer creates a Scorer sharing the indicator pipeline parameters.
func NewScorer(cfg calculator.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score produces a Recommendation for the latest row. platform may be nil
// when no consolidation span qualifies. All applicable rules contribute
// additively; the total is clamped to [0,100].
func (s *Scorer) Score(row *model.IndicatorRow, platform *model.PlatformWindow) (*model.Recommendation, error) {
	short, mid, long, ok := s.cfg.CohesionWindows()
	if !ok {
		return nil, ErrDataInsufficient
	}
	if !sufficient(row, short, mid, long) {
		return nil, ErrDataInsufficient
	}

	in := &ruleInput{
		row:      row,
		platform: platform,
		cfg:      s.cfg,
		maShort:  short,
		maMid:    mid,
		maLong:   long,
	}

	rec := &model.Recommendation{}
	score := 0.0
	for _, r := range scoringRules {
		if !r.satisfied(in) {
			continue
		}
		score += r.weight
		reason := r.reason(in)
		rec.Rules = append(rec.Rules, model.RuleResult{Key: r.key, Weight: r.weight, Reason: reason})
		rec.Reasons = append(rec.Reasons, reason)
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	rec.Score = score
	rec.Action = mapAction(score)
	rec.Confidence = confidence(score, len(rec.Rules), len(scoringRules))
	return rec, nil
}

// sufficient checks every column the rule table reads.
func sufficient(row *model.IndicatorRow, maWindows ...int) bool {
	for _, w := range maWindows {
		if !model.Defined(row.MA[w]) {
			return false
		}
	}
	return model.Defined(row.RSI) &&
		model.Defined(row.K) &&
		model.Defined(row.D) &&
		model.Defined(row.VolumeRatio)
}

// mapAction applies the fixed, non-overlapping thresholds high to low.
func mapAction(score float64) model.Action {
	switch {
	case score >= 80:
		return model.ActionStrongBuy
	case score >= 60:
		return model.ActionBuy
	case score >= 40:
		return model.ActionWatch
	default:
		return model.ActionHold
	}
}

// confidence blends the score fraction with the satisfied-rule fraction.
// Monotonically increasing in both, bounded to [0,1].
func confidence(score float64, satisfied, total int) float64 {
	c := 0.7*score/100 + 0.3*float64(satisfied)/float64(total)
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}
