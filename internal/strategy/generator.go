// Package strategy turns the day's analysis and role assignment into the
// final trading-plan report.
package strategy

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/zhenqiu/fupan/internal/analysis/limitup"
	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/pkg/logger"
)

// Version is stamped into every report's meta block.
const Version = "1.0"

// Generator implements contracts.StrategyGenerator.
type Generator struct {
	cfg        *reviewcfg.Config
	log        *logger.Logger
	dataSource string
	configHash string

	now func() time.Time // injected for tests
}

// New creates a strategy generator. dataSource names the quote feed the
// roster came from, configHash ties the report to the parameter set.
func New(cfg *reviewcfg.Config, log *logger.Logger, dataSource, configHash string) *Generator {
	return &Generator{
		cfg:        cfg,
		log:        log,
		dataSource: dataSource,
		configHash: configHash,
		now:        time.Now,
	}
}

// Generate builds the report. commentary may be nil; its absence changes
// nothing but the AI fields.
func (g *Generator) Generate(ctx context.Context, analysis *contracts.AnalysisResult, roles *contracts.RoleAssignment, commentary map[string]*contracts.Commentary) (*contracts.StrategyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if analysis == nil || analysis.Summary.TotalCount == 0 {
		return g.emptyReport(analysis), nil
	}

	report := &contracts.StrategyReport{
		Summary:         g.summarize(analysis, roles),
		Themes:          g.themes(roles),
		StockStrategies: g.stockStrategies(analysis, roles, commentary),
		Meta:            g.meta(analysis.Summary.TradeDate, false),
	}
	report.RiskWarnings = g.riskWarnings(analysis, roles)
	report.TradingSuggestions = g.suggestions(report)

	g.log.WithFields(map[string]interface{}{
		"themes":     len(report.Themes),
		"strategies": len(report.StockStrategies),
	}).Info("strategy report generated")

	return report, nil
}

func (g *Generator) meta(tradeDate string, empty bool) contracts.ReportMeta {
	return contracts.ReportMeta{
		GeneratedAt: g.now(),
		TradeDate:   tradeDate,
		Version:     Version,
		DataSource:  g.dataSource,
		ConfigHash:  g.configHash,
		EmptyReport: empty,
	}
}

func (g *Generator) summarize(analysis *contracts.AnalysisResult, roles *contracts.RoleAssignment) contracts.ReportSummary {
	count := analysis.Summary.TotalCount

	maxStreak := 0
	for _, s := range analysis.StreakStocks {
		if s.ContinuousDays > maxStreak {
			maxStreak = s.ContinuousDays
		}
	}

	return contracts.ReportSummary{
		TotalLimitUps: count,
		MaxStreak:     maxStreak,
		SuccessRate:   limitup.SuccessRate(count),
		Sentiment:     limitup.Sentiment(count),
		ProfitEffect:  profitEffect(count),
	}
}

func profitEffect(count int) string {
	switch {
	case count > 60:
		return "好"
	case count > 40:
		return "一般"
	default:
		return "差"
	}
}

type sectorStat struct {
	name        string
	count       int
	leaderCount int
}

// themes aggregates sector counts across all four role lists and keeps the
// strongest few.
func (g *Generator) themes(roles *contracts.RoleAssignment) []contracts.Theme {
	stats := make(map[string]*sectorStat)
	var order []string

	collect := func(stocks []*contracts.StockAnalysis, isLeader bool) {
		for _, s := range stocks {
			name := s.Sector
			if name == "" {
				name = "其他"
			}
			st, ok := stats[name]
			if !ok {
				st = &sectorStat{name: name}
				stats[name] = st
				order = append(order, name)
			}
			st.count++
			if isLeader {
				st.leaderCount++
			}
		}
	}
	collect(roles.Leaders, true)
	collect(roles.Cores, false)
	collect(roles.CatchUps, false)
	collect(roles.Watch, false)

	var themes []contracts.Theme
	for _, name := range order {
		st := stats[name]
		if st.count < g.cfg.Sector.StrengthThreshold {
			continue
		}
		themes = append(themes, contracts.Theme{
			Name:        st.name,
			Count:       st.count,
			LeaderCount: st.leaderCount,
			Stars:       stars(st.count),
			Persistence: themePersistence(st),
		})
	}

	sort.SliceStable(themes, func(i, j int) bool {
		if themes[i].Count != themes[j].Count {
			return themes[i].Count > themes[j].Count
		}
		return themes[i].Name < themes[j].Name
	})

	if len(themes) > g.cfg.Report.TopThemes {
		themes = themes[:g.cfg.Report.TopThemes]
	}
	return themes
}

func stars(count int) int {
	switch {
	case count >= 10:
		return 5
	case count >= 7:
		return 4
	case count >= 5:
		return 3
	case count >= 3:
		return 2
	default:
		return 1
	}
}

func themePersistence(st *sectorStat) string {
	switch {
	case st.leaderCount > 0 && st.count >= 5:
		return "主线明确，持续性较强"
	case st.count >= 3:
		return "有一定持续性，需观察"
	default:
		return "一日游可能性大，谨慎参与"
	}
}

func (g *Generator) stockStrategies(analysis *contracts.AnalysisResult, roles *contracts.RoleAssignment, commentary map[string]*contracts.Commentary) []contracts.StockStrategy {
	var out []contracts.StockStrategy

	for _, s := range roles.Leaders {
		item := contracts.StockStrategy{
			Code:         s.Code,
			Name:         s.Name,
			Role:         contracts.RoleLeader,
			StrategyType: "核心持仓",
			Advice:       leaderAdvice(s.ContinuousDays),
			BuyCondition: "分歧低吸或弱转强时",
			StopLoss:     fmt.Sprintf("%.2f", s.Price*0.93),
			Target:       fmt.Sprintf("%.2f", s.Price*1.15),
		}
		mergeCommentary(&item, commentary[s.Code])
		out = append(out, item)
	}

	for _, s := range roles.Cores {
		item := contracts.StockStrategy{
			Code:         s.Code,
			Name:         s.Name,
			Role:         contracts.RoleCore,
			StrategyType: "趋势跟随",
			Advice:       "5日线附近低吸，趋势持有",
			BuyCondition: "回踩5日线不破时",
			StopLoss:     fmt.Sprintf("%.2f", s.Price*0.95),
			Target:       fmt.Sprintf("%.2f", s.Price*1.10),
		}
		mergeCommentary(&item, commentary[s.Code])
		out = append(out, item)
	}

	for _, s := range roles.CatchUps {
		item := contracts.StockStrategy{
			Code:         s.Code,
			Name:         s.Name,
			Role:         contracts.RoleCatchUp,
			StrategyType: "短线套利",
			Advice:       "竞价强势或首封打板",
			BuyCondition: "板块强势时早盘首板",
			StopLoss:     fmt.Sprintf("%.2f", s.Price*0.92),
			Target:       fmt.Sprintf("%.2f", s.Price*1.08),
			Remark:       "快进快出，注意龙头走势",
		}
		mergeCommentary(&item, commentary[s.Code])
		out = append(out, item)
	}

	return out
}

func leaderAdvice(days int) string {
	switch {
	case days >= 5:
		return "持有为主，断板时减仓，反包失败离场"
	case days >= 3:
		return "分歧时低吸，加速时持有，放量滞涨时减仓"
	default:
		return "确认龙头地位后加仓，关注板块梯队完整性"
	}
}

// mergeCommentary copies the AI fields onto a strategy entry.
func mergeCommentary(item *contracts.StockStrategy, c *contracts.Commentary) {
	if c == nil {
		return
	}

	if len(c.Reasons) > 0 {
		item.AIReasons = c.Reasons
		item.Catalyst = truncateRunes(c.Reasons[0], 50)
	}
	if c.Summary != "" {
		item.AISummary = c.Summary
	}
	if c.Detail != "" {
		item.AIDetail = c.Detail
	}
	if c.Role != "" {
		item.AIRole = c.Role
	}
}

// truncateRunes cuts s to at most n runes, appending an ellipsis when
// something was dropped. 中文按字算，不按字节。
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func (g *Generator) riskWarnings(analysis *contracts.AnalysisResult, roles *contracts.RoleAssignment) []string {
	var warnings []string
	count := analysis.Summary.TotalCount

	if count > 100 {
		warnings = append(warnings, "涨停家数过多，警惕情绪高潮后的分化风险")
	}
	if count < 30 {
		warnings = append(warnings, "涨停家数较少，市场情绪低迷，注意仓位控制")
	}

	maxStreak := 0
	for _, s := range analysis.StreakStocks {
		if s.ContinuousDays > maxStreak {
			maxStreak = s.ContinuousDays
		}
	}
	if maxStreak >= 7 {
		warnings = append(warnings, fmt.Sprintf("最高连板%d天，注意高位股补跌风险", maxStreak))
	}

	if len(roles.Leaders) == 0 {
		warnings = append(warnings, "无明显龙头板块，市场主线不清晰，谨慎操作")
	}

	return warnings
}

func (g *Generator) suggestions(report *contracts.StrategyReport) []string {
	var out []string

	switch report.Summary.Sentiment {
	case "高潮":
		out = append(out,
			"控制仓位，优先处理持仓，谨慎开新仓",
			"关注低位首板或新题材机会")
	case "冰点":
		out = append(out,
			"小仓位试错，关注率先走强的板块",
			"重点观察连板股能否打开空间")
	default:
		out = append(out,
			"去弱留强，聚焦主线板块核心个股",
			"龙头分歧时低吸，跟风股冲高减仓")
	}

	if len(report.Themes) > 0 {
		top := report.Themes[0]
		out = append(out, fmt.Sprintf("重点关注%s板块，%s", top.Name, top.Persistence))
	}
	return out
}

// emptyReport is produced on days with no limit-up stocks at all.
func (g *Generator) emptyReport(analysis *contracts.AnalysisResult) *contracts.StrategyReport {
	tradeDate := ""
	if analysis != nil {
		tradeDate = analysis.Summary.TradeDate
	}

	return &contracts.StrategyReport{
		Summary: contracts.ReportSummary{
			SuccessRate:  "0%",
			Sentiment:    "冰点",
			ProfitEffect: "差",
		},
		Themes:          []contracts.Theme{},
		StockStrategies: []contracts.StockStrategy{},
		RiskWarnings: []string{
			"当日无涨停股票，市场极度低迷",
			"建议空仓观望，等待市场回暖",
			"注意控制仓位，避免盲目抄底",
		},
		TradingSuggestions: []string{
			"空仓观望，等待市场出现明确信号",
			"关注市场量能变化，等待放量上涨",
			"可关注抗跌板块或个股，但不宜重仓",
		},
		Meta: g.meta(tradeDate, true),
	}
}
