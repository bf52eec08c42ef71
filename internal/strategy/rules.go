package strategy

import (
	"fmt"

	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/model"
)

// ruleInput is what every scoring rule sees: the latest indicator row, the
// platform behind it (may be nil), and the pipeline parameters.
type ruleInput struct {
	row      *model.IndicatorRow
	platform *model.PlatformWindow
	cfg      calculator.Config
	maShort  int
	maMid    int
	maLong   int
}

// rule is one entry of the scoring table. Rules are not mutually exclusive;
// every satisfied rule contributes its weight.
type rule struct {
	key       string
	weight    float64
	satisfied func(in *ruleInput) bool
	reason    func(in *ruleInput) string
}

// scoringRules is evaluated top to bottom; reasons keep this order.
// The trailing minor confirmations together weigh at most 5.
var scoringRules = []rule{
	{
		key:    "breakout_confirmed",
		weight: 40,
		satisfied: func(in *ruleInput) bool {
			return in.row.HasBreakout
		},
		reason: func(in *ruleInput) string {
			if in.platform != nil {
				return fmt.Sprintf("放量突破平台(上沿%.2f)，突破强度: %.0f分",
					in.platform.HighBound, in.row.BreakoutStrength)
			}
			return fmt.Sprintf("放量突破平台，突破强度: %.0f分", in.row.BreakoutStrength)
		},
	},
	{
		key:    "ma_bullish_alignment",
		weight: 20,
		satisfied: func(in *ruleInput) bool {
			return in.row.MA[in.maShort] > in.row.MA[in.maMid] &&
				in.row.MA[in.maMid] > in.row.MA[in.maLong]
		},
		reason: func(in *ruleInput) string {
			return "均线多头排列"
		},
	},
	{
		key:    "rsi_strong_zone",
		weight: 10,
		satisfied: func(in *ruleInput) bool {
			return in.row.RSI >= 60 && in.row.RSI <= 80
		},
		reason: func(in *ruleInput) string {
			return fmt.Sprintf("RSI处于强势区间(%.1f)", in.row.RSI)
		},
	},
	{
		key:    "kdj_golden_cross",
		weight: 10,
		satisfied: func(in *ruleInput) bool {
			return in.row.K > in.row.D && in.row.K > 70
		},
		reason: func(in *ruleInput) string {
			return "KDJ金叉且处于强势区"
		},
	},
	{
		key:    "volume_confirmation",
		weight: 15,
		satisfied: func(in *ruleInput) bool {
			return in.row.VolumeRatio >= in.cfg.VolumeThreshold
		},
		reason: func(in *ruleInput) string {
			return fmt.Sprintf("成交量显著放大(%.1f倍)", in.row.VolumeRatio)
		},
	},
	{
		key:    "platform_consolidation",
		weight: 3,
		satisfied: func(in *ruleInput) bool {
			return in.row.IsPlatform && !in.row.HasBreakout
		},
		reason: func(in *ruleInput) string {
			return "处于平台整理阶段，等待突破"
		},
	},
	{
		key:    "macd_momentum",
		weight: 2,
		satisfied: func(in *ruleInput) bool {
			return model.Defined(in.row.MACDHistogram) && in.row.MACDHistogram > 0
		},
		reason: func(in *ruleInput) string {
			return "MACD红柱扩张"
		},
	},
}
