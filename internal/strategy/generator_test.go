package strategy

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/pkg/logger"
)

func newTestGenerator() *Generator {
	g := New(reviewcfg.Default(), logger.NewNop(), "eastmoney", "deadbeef")
	g.now = func() time.Time { return time.Date(2026, 8, 28, 18, 0, 0, 0, time.Local) }
	return g
}

func stock(code, name, sector string, days int, price float64) *contracts.StockAnalysis {
	return &contracts.StockAnalysis{
		LimitUpRecord:  contracts.LimitUpRecord{Code: code, Name: name, Price: price},
		ContinuousDays: days,
		Sector:         sector,
	}
}

func analysisWith(count int, streaks ...*contracts.StockAnalysis) *contracts.AnalysisResult {
	return &contracts.AnalysisResult{
		Summary:      contracts.MarketSummary{TradeDate: "2026-08-28", TotalCount: count},
		StreakStocks: streaks,
	}
}

func emptyRoles() *contracts.RoleAssignment {
	return &contracts.RoleAssignment{
		Leaders:  []*contracts.StockAnalysis{},
		Cores:    []*contracts.StockAnalysis{},
		CatchUps: []*contracts.StockAnalysis{},
		Watch:    []*contracts.StockAnalysis{},
	}
}

func TestGenerate_EmptyReport(t *testing.T) {
	g := newTestGenerator()

	report, err := g.Generate(context.Background(), analysisWith(0), emptyRoles(), nil)
	require.NoError(t, err)

	assert.True(t, report.Meta.EmptyReport)
	assert.Equal(t, "2026-08-28", report.Meta.TradeDate)
	assert.Equal(t, "冰点", report.Summary.Sentiment)
	assert.Equal(t, "0%", report.Summary.SuccessRate)
	assert.Equal(t, "差", report.Summary.ProfitEffect)
	assert.Empty(t, report.Themes)
	assert.Empty(t, report.StockStrategies)
	assert.Contains(t, report.RiskWarnings, "当日无涨停股票，市场极度低迷")
	assert.Contains(t, report.TradingSuggestions, "空仓观望，等待市场出现明确信号")
}

func TestGenerate_StockStrategies(t *testing.T) {
	g := newTestGenerator()

	roles := emptyRoles()
	roles.Leaders = []*contracts.StockAnalysis{stock("600001", "龙头股", "科技", 3, 10.0)}
	roles.Cores = []*contracts.StockAnalysis{stock("600002", "中军股", "科技", 1, 20.0)}
	roles.CatchUps = []*contracts.StockAnalysis{stock("600003", "补涨股", "科技", 1, 5.0)}

	report, err := g.Generate(context.Background(), analysisWith(50), roles, nil)
	require.NoError(t, err)
	require.Len(t, report.StockStrategies, 3)

	leader := report.StockStrategies[0]
	assert.Equal(t, contracts.RoleLeader, leader.Role)
	assert.Equal(t, "核心持仓", leader.StrategyType)
	assert.Equal(t, "分歧时低吸，加速时持有，放量滞涨时减仓", leader.Advice)
	assert.Equal(t, "9.30", leader.StopLoss)
	assert.Equal(t, "11.50", leader.Target)

	core := report.StockStrategies[1]
	assert.Equal(t, "趋势跟随", core.StrategyType)
	assert.Equal(t, "19.00", core.StopLoss)
	assert.Equal(t, "22.00", core.Target)

	catchUp := report.StockStrategies[2]
	assert.Equal(t, "短线套利", catchUp.StrategyType)
	assert.Equal(t, "4.60", catchUp.StopLoss)
	assert.Equal(t, "5.40", catchUp.Target)
	assert.Equal(t, "快进快出，注意龙头走势", catchUp.Remark)
}

func TestLeaderAdvice(t *testing.T) {
	assert.Equal(t, "持有为主，断板时减仓，反包失败离场", leaderAdvice(5))
	assert.Equal(t, "分歧时低吸，加速时持有，放量滞涨时减仓", leaderAdvice(3))
	assert.Equal(t, "确认龙头地位后加仓，关注板块梯队完整性", leaderAdvice(2))
}

func TestGenerate_Themes(t *testing.T) {
	g := newTestGenerator()

	roles := emptyRoles()
	roles.Leaders = []*contracts.StockAnalysis{stock("600001", "a", "科技", 3, 10)}
	roles.Watch = []*contracts.StockAnalysis{
		stock("600002", "b", "科技", 1, 10),
		stock("600003", "c", "科技", 1, 10),
		stock("600004", "d", "科技", 1, 10),
		stock("600005", "e", "科技", 1, 10),
		stock("600006", "f", "医药", 1, 10),
		stock("600007", "g", "医药", 1, 10),
		stock("600008", "h", "医药", 1, 10),
		stock("600009", "i", "消费", 1, 10), // 低于阈值，不成主线
	}

	report, err := g.Generate(context.Background(), analysisWith(50), roles, nil)
	require.NoError(t, err)
	require.Len(t, report.Themes, 2)

	tech := report.Themes[0]
	assert.Equal(t, "科技", tech.Name)
	assert.Equal(t, 5, tech.Count)
	assert.Equal(t, 1, tech.LeaderCount)
	assert.Equal(t, 3, tech.Stars)
	// 有龙头且 ≥5 家
	assert.Equal(t, "主线明确，持续性较强", tech.Persistence)

	med := report.Themes[1]
	assert.Equal(t, "医药", med.Name)
	assert.Equal(t, 0, med.LeaderCount)
	assert.Equal(t, 2, med.Stars)
	assert.Equal(t, "有一定持续性，需观察", med.Persistence)
}

func TestStars(t *testing.T) {
	assert.Equal(t, 5, stars(10))
	assert.Equal(t, 4, stars(7))
	assert.Equal(t, 3, stars(5))
	assert.Equal(t, 2, stars(3))
	assert.Equal(t, 1, stars(2))
}

func TestGenerate_RiskWarnings(t *testing.T) {
	g := newTestGenerator()

	// 高连板 + 无龙头 + 家数过多可以同时出现
	analysis := analysisWith(120, stock("600001", "八连板", "科技", 8, 10))

	report, err := g.Generate(context.Background(), analysis, emptyRoles(), nil)
	require.NoError(t, err)

	assert.Contains(t, report.RiskWarnings, "涨停家数过多，警惕情绪高潮后的分化风险")
	assert.Contains(t, report.RiskWarnings, "最高连板8天，注意高位股补跌风险")
	assert.Contains(t, report.RiskWarnings, "无明显龙头板块，市场主线不清晰，谨慎操作")
	assert.NotContains(t, report.RiskWarnings, "涨停家数较少，市场情绪低迷，注意仓位控制")
}

func TestGenerate_Suggestions(t *testing.T) {
	g := newTestGenerator()

	// 高潮分支
	report, err := g.Generate(context.Background(), analysisWith(120), emptyRoles(), nil)
	require.NoError(t, err)
	assert.Contains(t, report.TradingSuggestions, "控制仓位，优先处理持仓，谨慎开新仓")

	// 冰点分支（非空榜但家数极少）
	report, err = g.Generate(context.Background(), analysisWith(5), emptyRoles(), nil)
	require.NoError(t, err)
	assert.Contains(t, report.TradingSuggestions, "小仓位试错，关注率先走强的板块")

	// 常态分支 + 主线提示
	roles := emptyRoles()
	roles.Watch = []*contracts.StockAnalysis{
		stock("600001", "a", "科技", 1, 10),
		stock("600002", "b", "科技", 1, 10),
		stock("600003", "c", "科技", 1, 10),
	}
	report, err = g.Generate(context.Background(), analysisWith(50), roles, nil)
	require.NoError(t, err)
	assert.Contains(t, report.TradingSuggestions, "去弱留强，聚焦主线板块核心个股")

	found := false
	for _, s := range report.TradingSuggestions {
		if strings.Contains(s, "重点关注科技板块") {
			found = true
		}
	}
	assert.True(t, found, "should reference the top theme")
}

func TestGenerate_CommentaryMerge(t *testing.T) {
	g := newTestGenerator()

	roles := emptyRoles()
	roles.Leaders = []*contracts.StockAnalysis{stock("600001", "龙头股", "科技", 3, 10)}

	longReason := strings.Repeat("中", 60)
	commentary := map[string]*contracts.Commentary{
		"600001": {
			Code:    "600001",
			Role:    contracts.RoleLeader,
			Summary: "摘要内容",
			Detail:  "详细分析内容",
			Reasons: []string{longReason, "政策利好"},
		},
	}

	report, err := g.Generate(context.Background(), analysisWith(50), roles, commentary)
	require.NoError(t, err)

	item := report.StockStrategies[0]
	assert.Equal(t, []string{longReason, "政策利好"}, item.AIReasons)
	// 50 个字加省略号
	assert.Equal(t, strings.Repeat("中", 50)+"...", item.Catalyst)
	assert.Equal(t, "摘要内容", item.AISummary)
	assert.Equal(t, "详细分析内容", item.AIDetail)
	assert.Equal(t, contracts.RoleLeader, item.AIRole)
}

func TestGenerate_NoCommentaryUnchanged(t *testing.T) {
	g := newTestGenerator()

	roles := emptyRoles()
	roles.Leaders = []*contracts.StockAnalysis{stock("600001", "龙头股", "科技", 3, 10)}

	with, err := g.Generate(context.Background(), analysisWith(50), roles, nil)
	require.NoError(t, err)
	without, err := g.Generate(context.Background(), analysisWith(50), roles, map[string]*contracts.Commentary{})
	require.NoError(t, err)

	// 除 AI 字段外其余不受影响
	assert.Equal(t, with.StockStrategies, without.StockStrategies)
	assert.Equal(t, with.RiskWarnings, without.RiskWarnings)
}

func TestGenerate_Idempotent(t *testing.T) {
	g := newTestGenerator()

	roles := emptyRoles()
	roles.Leaders = []*contracts.StockAnalysis{stock("600001", "龙头股", "科技", 3, 10)}
	analysis := analysisWith(50, stock("600001", "龙头股", "科技", 3, 10))

	r1, err := g.Generate(context.Background(), analysis, roles, nil)
	require.NoError(t, err)
	r2, err := g.Generate(context.Background(), analysis, roles, nil)
	require.NoError(t, err)

	r1.Meta.GeneratedAt = time.Time{}
	r2.Meta.GeneratedAt = time.Time{}
	assert.Equal(t, r1, r2)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "短文本", truncateRunes("短文本", 50))
	assert.Equal(t, strings.Repeat("字", 10)+"...", truncateRunes(strings.Repeat("字", 11), 10))
}
