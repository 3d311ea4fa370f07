package deepseek

import (
	"fmt"
	"strings"

	"github.com/zhenqiu/fupan/internal/contracts"
)

// summaryRunes caps the extracted summary length.
const summaryRunes = 200

// reasonKeywords flags answer lines that name a concrete limit-up driver.
var reasonKeywords = []string{
	"消息催化", "政策", "公告", "业绩", "技术突破", "资金流入", "板块轮动",
}

// fallbackReason is used when no keyword line was found in the answer.
const fallbackReason = "综合分析推动涨停"

// buildPrompt renders the per-stock analysis request.
func buildPrompt(s *contracts.StockAnalysis, role string) string {
	sector := s.Sector
	if sector == "" {
		sector = "未知"
	}
	var b strings.Builder
	b.WriteString("请分析以下股票涨停的原因和消息催化：\n\n")
	b.WriteString("股票信息：\n")
	fmt.Fprintf(&b, "名称：%s\n", s.Name)
	fmt.Fprintf(&b, "代码：%s\n", s.Code)
	fmt.Fprintf(&b, "角色：%s\n", role)
	fmt.Fprintf(&b, "连板天数：%d天\n", s.ContinuousDays)
	fmt.Fprintf(&b, "所属板块：%s\n", sector)
	fmt.Fprintf(&b, "最新价格：%.2f\n", s.Price)
	fmt.Fprintf(&b, "涨跌幅：%.2f%%\n", s.PctChange)
	fmt.Fprintf(&b, "成交额：%.2f亿元\n\n", s.Amount/1e8)
	b.WriteString(`请从以下角度进行结构化分析：
1. **直接消息催化**：哪些具体消息、公告、政策导致了涨停？
2. **板块效应**：所属板块整体表现如何？是否是板块龙头？
3. **技术面分析**：资金流向、技术形态、突破情况。
4. **基本面支撑**：业绩、估值、行业地位等。
5. **持续性判断**：涨停势头是否可持续？后续可能走势。
6. **风险提示**：需要关注哪些风险？

要求：分析要具体、有逻辑性，给出明确的判断依据。`)
	return b.String()
}

// extractSummary keeps the head of the answer, rune safe.
func extractSummary(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryRunes {
		return content
	}
	return string(runes[:summaryRunes]) + "..."
}

// extractReasons keeps answer lines that mention a driver keyword.
func extractReasons(content string) []string {
	var reasons []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, kw := range reasonKeywords {
			if strings.Contains(trimmed, kw) {
				reasons = append(reasons, trimmed)
				break
			}
		}
	}
	if len(reasons) == 0 {
		return []string{fallbackReason}
	}
	return reasons
}
