// Package report renders strategy reports to markdown, plain text and JSON,
// writes them to the results directory and optionally persists them.
package report

import (
	"fmt"
	"strings"

	"github.com/zhenqiu/fupan/internal/contracts"
)

const timeLayout = "2006-01-02 15:04:05"

// RenderMarkdown produces the full markdown report. Pure function, same
// input gives byte-identical output.
func RenderMarkdown(r *contracts.StrategyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## 📊 A股打板复盘报告 - %s\n", r.Meta.TradeDate)
	fmt.Fprintf(&b, "**生成时间**: %s\n\n", r.Meta.GeneratedAt.Format(timeLayout))

	b.WriteString("### 📈 市场概况\n")
	fmt.Fprintf(&b, "- **涨停家数**: %d家\n", r.Summary.TotalLimitUps)
	fmt.Fprintf(&b, "- **连板高度**: %d板\n", r.Summary.MaxStreak)
	fmt.Fprintf(&b, "- **封板成功率**: %s\n", r.Summary.SuccessRate)
	fmt.Fprintf(&b, "- **市场情绪**: %s\n", r.Summary.Sentiment)
	fmt.Fprintf(&b, "- **赚钱效应**: %s\n\n", r.Summary.ProfitEffect)

	b.WriteString("### 🎯 主线分析\n")
	if len(r.Themes) == 0 {
		b.WriteString("暂无明确主线\n")
	} else {
		for i, theme := range r.Themes {
			fmt.Fprintf(&b, "%d. **%s**\n", i+1, theme.Name)
			fmt.Fprintf(&b, "   - 涨停: %d家 | 强度: %s\n", theme.Count, strings.Repeat("★", theme.Stars))
			fmt.Fprintf(&b, "   - 持续性: %s\n", theme.Persistence)
		}
	}
	b.WriteString("\n")

	b.WriteString("### 🚀 个股策略\n")
	if len(r.StockStrategies) == 0 {
		b.WriteString("暂无推荐个股\n")
	} else {
		for _, s := range r.StockStrategies {
			writeStockStrategy(&b, s)
		}
	}

	b.WriteString("### ⚠️ 风险提示\n")
	if len(r.RiskWarnings) == 0 {
		b.WriteString("- 暂无特殊风险提示\n")
	} else {
		for _, w := range r.RiskWarnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	b.WriteString("\n")

	b.WriteString("### 💡 操作建议\n")
	for _, s := range r.TradingSuggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	b.WriteString("\n---\n")
	b.WriteString("**提示**: 以上为系统自动生成，仅供参考，投资需谨慎\n")

	return b.String()
}

func writeStockStrategy(b *strings.Builder, s contracts.StockStrategy) {
	fmt.Fprintf(b, "**%s** (%s)\n", s.Name, s.Code)
	fmt.Fprintf(b, "- 角色: %s\n", s.Role)
	if s.AIRole != "" {
		fmt.Fprintf(b, "- 🤖 AI确认角色: %s\n", s.AIRole)
	}
	fmt.Fprintf(b, "- 策略: %s\n", s.StrategyType)
	fmt.Fprintf(b, "- 建议: %s\n", s.Advice)
	fmt.Fprintf(b, "- 止损: %s\n", s.StopLoss)
	fmt.Fprintf(b, "- 目标: %s\n", s.Target)

	if len(s.AIReasons) > 0 {
		b.WriteString("- **🚀 涨停原因/消息催化**:\n")
		reasons := s.AIReasons
		if len(reasons) > 3 {
			reasons = reasons[:3]
		}
		for i, reason := range reasons {
			fmt.Fprintf(b, "  %d. %s\n", i+1, truncateRunes(reason, 50))
		}
	}
	if s.AISummary != "" {
		fmt.Fprintf(b, "- **🤖 AI分析**: %s\n", truncateRunes(s.AISummary, 100))
	}
	if s.Remark != "" {
		fmt.Fprintf(b, "- 备注: %s\n", s.Remark)
	}
	b.WriteString("\n")
}

// RenderNotification is the compact markdown pushed to the webhook. It
// carries at most maxStocks stock entries.
func RenderNotification(r *contracts.StrategyReport, maxStocks int) string {
	if maxStocks <= 0 || len(r.StockStrategies) <= maxStocks {
		return RenderMarkdown(r)
	}

	trimmed := *r
	trimmed.StockStrategies = r.StockStrategies[:maxStocks]
	return RenderMarkdown(&trimmed)
}

// RenderSummaryText is the terse plain-text digest written beside the
// markdown report.
func RenderSummaryText(r *contracts.StrategyReport) string {
	aiState := "未启用"
	for _, s := range r.StockStrategies {
		if s.AISummary != "" || len(s.AIReasons) > 0 {
			aiState = "已启用"
			break
		}
	}

	return fmt.Sprintf(`========================================
A股打板复盘摘要 - %s
========================================

📊 市场概况
  涨停家数: %d
  连板高度: %d
  市场情绪: %s
  赚钱效应: %s

🎯 主线板块: %d个

🤖 AI分析: %s

🚀 推荐个股: %d只

⚠️ 风险提示: %d条

💡 操作建议: %d条

========================================
生成时间: %s
========================================
`,
		r.Meta.TradeDate,
		r.Summary.TotalLimitUps,
		r.Summary.MaxStreak,
		r.Summary.Sentiment,
		r.Summary.ProfitEffect,
		len(r.Themes),
		aiState,
		len(r.StockStrategies),
		len(r.RiskWarnings),
		len(r.TradingSuggestions),
		r.Meta.GeneratedAt.Format(timeLayout),
	)
}

// RenderLatestPointer is the small latest.md file linking to the day's
// report.
func RenderLatestPointer(r *contracts.StrategyReport) string {
	dateStr := strings.ReplaceAll(r.Meta.TradeDate, "-", "")
	return fmt.Sprintf(`# 最新复盘报告

**交易日**: %s

**生成时间**: %s

**报告文件**: [strategy_%s.md](strategy_%s.md)
`,
		r.Meta.TradeDate,
		r.Meta.GeneratedAt.Format(timeLayout),
		dateStr, dateStr,
	)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
