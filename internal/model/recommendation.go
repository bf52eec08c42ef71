package model

// Action is the recommendation label produced by the breakout scorer.
type Action string

const (
	ActionStrongBuy Action = "STRONG_BUY"
	ActionBuy       Action = "BUY"
	ActionWatch     Action = "WATCH"
	ActionHold      Action = "HOLD"
)

// Label returns the Chinese display name for reports.
func (a Action) Label() string {
	switch a {
	case ActionStrongBuy:
		return "强烈买入"
	case ActionBuy:
		return "买入"
	case ActionWatch:
		return "关注"
	default:
		return "观望"
	}
}

// RuleResult records one satisfied scoring rule.
type RuleResult struct {
	Key    string
	Weight float64
	Reason string
}

// Recommendation is the scorer's output for one instrument at one point in time.
type Recommendation struct {
	Score      float64 // 0-100
	Action     Action
	Confidence float64 // 0.0-1.0
	Rules      []RuleResult
	Reasons    []string // human-readable, one per satisfied rule, table order
}

// ScreenResult bundles everything known about one screened instrument.
type ScreenResult struct {
	Stock          StockInfo
	LatestPrice    float64
	LatestAmount   float64
	Latest         IndicatorRow
	Platform       *PlatformWindow // nil when no qualifying platform found
	Recommendation *Recommendation
}
