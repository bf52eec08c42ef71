package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/screener"
)

// FormatScreenReport formats a full screening run into a Telegram message.
// Only the top n results are listed in detail.
func FormatScreenReport(results []*model.ScreenResult, stats *screener.RunStats, topN int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>平台突破选股日报</b> | %s\n\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("扫描: %s 只 | 入选: %d 只 | 信号: %d 个\n",
		humanize.Comma(int64(stats.Total)), stats.Qualified, stats.Signals))
	b.WriteString(fmt.Sprintf("耗时: %s", stats.Duration.Round(time.Second)))
	if stats.Errors > 0 {
		b.WriteString(fmt.Sprintf(" | 失败: %d", stats.Errors))
	}
	b.WriteString("\n\n")

	if len(results) == 0 {
		b.WriteString("今日无符合条件的标的 💤\n")
		return b.String()
	}

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	for i, res := range results {
		b.WriteString(formatEntry(i+1, res))
	}
	return b.String()
}

func formatEntry(rank int, res *model.ScreenResult) string {
	var b strings.Builder
	rec := res.Recommendation

	marker := "👀"
	switch rec.Action {
	case model.ActionStrongBuy:
		marker = "🚀"
	case model.ActionBuy:
		marker = "📈"
	case model.ActionHold:
		marker = "💤"
	}

	b.WriteString(fmt.Sprintf("%d. %s <b>%s</b> (%s)\n", rank, marker, res.Stock.Name, res.Stock.Code))
	b.WriteString(fmt.Sprintf("   价格: %.2f | 成交额: %s\n", res.LatestPrice, formatAmount(res.LatestAmount)))
	b.WriteString(fmt.Sprintf("   评分: %.0f | %s | 置信度: %.0f%%\n", rec.Score, rec.Action.Label(), rec.Confidence*100))
	if res.Latest.HasBreakout {
		b.WriteString(fmt.Sprintf("   突破强度: %.0f | 量比: %.1f\n", res.Latest.BreakoutStrength, res.Latest.VolumeRatio))
	}
	if res.Platform != nil {
		b.WriteString(fmt.Sprintf("   平台: %.2f-%.2f (%d日, 波动 %.1f%%)\n",
			res.Platform.LowBound, res.Platform.HighBound,
			res.Platform.Length, res.Platform.Volatility*100))
	}
	if len(rec.Reasons) > 0 {
		b.WriteString(fmt.Sprintf("   %s\n", strings.Join(rec.Reasons, "; ")))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatResultDetail formats one instrument with full indicator detail
// for the /top command.
func FormatResultDetail(res *model.ScreenResult) string {
	var b strings.Builder
	rec := res.Recommendation
	row := res.Latest

	b.WriteString(fmt.Sprintf("🔍 <b>%s</b> (%s)\n\n", res.Stock.Name, res.Stock.Code))
	b.WriteString(fmt.Sprintf("价格: %.2f | 成交额: %s\n", res.LatestPrice, formatAmount(res.LatestAmount)))
	b.WriteString(fmt.Sprintf("评分: %.0f | %s | 置信度: %.0f%%\n\n", rec.Score, rec.Action.Label(), rec.Confidence*100))

	b.WriteString("📐 <b>技术指标:</b>\n")
	if model.Defined(row.RSI) {
		b.WriteString(fmt.Sprintf("  RSI: %.1f\n", row.RSI))
	}
	if model.Defined(row.K) && model.Defined(row.D) {
		b.WriteString(fmt.Sprintf("  KDJ: K=%.1f D=%.1f J=%.1f\n", row.K, row.D, row.J))
	}
	if model.Defined(row.VolumeRatio) {
		b.WriteString(fmt.Sprintf("  量比: %.2f\n", row.VolumeRatio))
	}
	if res.Platform != nil {
		b.WriteString(fmt.Sprintf("  平台: %.2f-%.2f (%d日, 波动 %.1f%%)\n",
			res.Platform.LowBound, res.Platform.HighBound,
			res.Platform.Length, res.Platform.Volatility*100))
	}
	if row.HasBreakout {
		b.WriteString(fmt.Sprintf("  突破强度: %.0f\n", row.BreakoutStrength))
	}

	b.WriteString("\n📋 <b>评分明细:</b>\n")
	for _, r := range rec.Rules {
		b.WriteString(fmt.Sprintf("  +%.0f %s\n", r.Weight, r.Reason))
	}
	return b.String()
}

// FormatHelp lists the supported bot commands.
func FormatHelp() string {
	return strings.Join([]string{
		"🤖 <b>BreakoutSentinel 命令</b>",
		"",
		"/screen 选股 - 立即执行一次全市场筛选",
		"/top 详情 - 查看最近一次筛选的榜首详情",
		"/status 状态 - 查看运行状态",
		"/help 帮助 - 显示本帮助",
	}, "\n")
}

// formatAmount renders CNY turnover with Chinese magnitude units.
func formatAmount(amount float64) string {
	switch {
	case amount >= 1e8:
		return fmt.Sprintf("%.2f亿", amount/1e8)
	case amount >= 1e4:
		return fmt.Sprintf("%.0f万", amount/1e4)
	default:
		return humanize.CommafWithDigits(amount, 0)
	}
}
