package notifier

import (
	"fmt"
	"strings"
	"time"

	"ChanSentinel/internal/model"
)

// reportGroup is one titled section of the scan report.
type reportGroup struct {
	title   string
	matches func(r *model.AnalysisResult) bool
}

func grade(r *model.AnalysisResult) string {
	if r.Score == nil {
		return ""
	}
	return r.Score.Grade
}

// Display order mirrors signal priority: sells first, then buys by strength.
var reportGroups = []reportGroup{
	{"【三卖信号-清仓离场】", func(r *model.AnalysisResult) bool {
		return strings.Contains(r.Signal, "三卖")
	}},
	{"【二卖信号-减仓防守】", func(r *model.AnalysisResult) bool {
		return strings.Contains(r.Signal, "二卖") && !strings.Contains(r.Signal, "买")
	}},
	{"【强力二买-核心买点】", func(r *model.AnalysisResult) bool {
		return r.Signal == model.SignalBuy2Strong
	}},
	{"【标准二买-有效买点】", func(r *model.AnalysisResult) bool {
		return r.Signal == model.SignalBuy2Std
	}},
	{"【三买信号-强势突破(A/B级)】", func(r *model.AnalysisResult) bool {
		g := grade(r)
		return strings.Contains(r.Signal, "三买") && (g == "A" || g == "B")
	}},
	{"【三买信号-谨慎参与(C/D级)】", func(r *model.AnalysisResult) bool {
		g := grade(r)
		return strings.Contains(r.Signal, "三买") && g != "A" && g != "B"
	}},
	{"【一买信号-底部反转】", func(r *model.AnalysisResult) bool {
		return strings.Contains(r.Signal, "一买")
	}},
}

// FormatScanReport renders a scan batch as a Telegram HTML message.
// Results without an actionable signal are omitted; when nothing fired
// a short all-clear message is returned.
func FormatScanReport(results []*model.AnalysisResult) string {
	grouped := make([][]*model.AnalysisResult, len(reportGroups))
	claimed := make(map[*model.AnalysisResult]bool)
	signals := 0
	for gi, g := range reportGroups {
		for _, r := range results {
			if r == nil || r.Signal == model.SignalNone || claimed[r] {
				continue
			}
			if g.matches(r) {
				grouped[gi] = append(grouped[gi], r)
				claimed[r] = true
				signals++
			}
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>缠论选股分析结果</b> | %s\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("分析:%d只 | 信号:%d只\n", len(results), signals))

	if signals == 0 {
		b.WriteString("\n今日无触发信号，继续观望。\n")
		return b.String()
	}

	for gi, g := range reportGroups {
		if len(grouped[gi]) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", g.title))
		for _, r := range grouped[gi] {
			writeResultCard(&b, r)
		}
	}

	b.WriteString("\n⚠️ 风险提示：以上分析仅供参考，不构成投资建议。\n")
	return b.String()
}

func writeResultCard(b *strings.Builder, r *model.AnalysisResult) {
	head := fmt.Sprintf("%s %s  ¥%.2f (%+.1f%%)", r.Code, r.Name, r.Price, r.Change)
	if g := grade(r); g != "" {
		head += fmt.Sprintf(" [评分:%s]", g)
	}
	b.WriteString(head + "\n")

	var parts []string
	switch r.Action {
	case model.ActionBuy, model.ActionWatch:
		if r.EntryPrice > 0 {
			parts = append(parts, fmt.Sprintf("买入: ¥%.1f", r.EntryPrice))
		}
	case model.ActionSell, model.ActionReduce:
		parts = append(parts, fmt.Sprintf("操作: %s", r.Action))
	}
	if r.StopLoss > 0 {
		parts = append(parts, fmt.Sprintf("止损: ¥%.1f (%+.0f%%)", r.StopLoss, r.StopLossPct))
	}
	if r.TargetPrice > 0 {
		parts = append(parts, fmt.Sprintf("目标: ¥%.1f (+%.0f%%)", r.TargetPrice, r.TargetPct))
	}
	if len(parts) > 0 {
		b.WriteString("  " + strings.Join(parts, " | ") + "\n")
	}
	if r.Sector.Found && r.Sector.Main != "" {
		line := fmt.Sprintf("  板块: %s (%+.1f%%)", r.Sector.Main, r.Sector.FlowPct)
		if r.Sector.Theme != "" {
			line += " · " + r.Sector.Theme
		}
		b.WriteString(line + "\n")
	}
	if r.Suggestion != "" {
		// Keep only the headline, detail lines stay in the CSV export.
		line := r.Suggestion
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		b.WriteString("  💡 " + line + "\n")
	}
}

// FormatWatchlist renders the watchlist for a Telegram reply.
func FormatWatchlist(codes []string) string {
	if len(codes) == 0 {
		return "📋 自选股列表为空，使用 /add 代码 名称 添加。"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>自选股</b> (%d只)\n", len(codes)))
	for _, c := range codes {
		b.WriteString("  " + c + "\n")
	}
	return b.String()
}
