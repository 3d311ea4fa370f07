// Package limitup builds the per-stock analysis and market summary from the
// day's limit-up roster and kline history.
package limitup

import (
	"context"
	"sort"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/pkg/logger"
)

// Analyzer implements contracts.LimitUpAnalyzer.
type Analyzer struct {
	cfg *reviewcfg.Config
	log *logger.Logger
}

// New creates a limit-up analyzer.
func New(cfg *reviewcfg.Config, log *logger.Logger) *Analyzer {
	return &Analyzer{cfg: cfg, log: log}
}

// Analyze builds a StockAnalysis per roster entry plus the market summary.
// Missing or short history degrades that stock's record, never fails the run.
func (a *Analyzer) Analyze(ctx context.Context, roster []contracts.LimitUpRecord, history map[string]*contracts.HistoricalSeries) (*contracts.AnalysisResult, error) {
	if len(roster) == 0 {
		return emptyResult(), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &contracts.AnalysisResult{
		Summary: a.summarize(roster),
		Stocks:  make([]*contracts.StockAnalysis, 0, len(roster)),
	}

	a.log.WithField("count", len(roster)).Info("analyzing limit-up stocks")

	for _, rec := range roster {
		result.Stocks = append(result.Stocks, a.analyzeStock(rec, history[rec.Code]))
	}

	result.StreakStocks = a.findStreakStocks(result.Stocks, history)

	a.log.WithFields(map[string]interface{}{
		"total":   len(result.Stocks),
		"streaks": len(result.StreakStocks),
	}).Info("limit-up analysis complete")

	return result, nil
}

func (a *Analyzer) summarize(roster []contracts.LimitUpRecord) contracts.MarketSummary {
	s := contracts.MarketSummary{TotalCount: len(roster)}

	s.MaxPctChange = roster[0].PctChange
	s.MinPctChange = roster[0].PctChange
	for _, rec := range roster {
		s.TotalAmount += rec.Amount
		s.TotalVolume += rec.Volume
		s.AvgPctChange += rec.PctChange
		if rec.PctChange > s.MaxPctChange {
			s.MaxPctChange = rec.PctChange
		}
		if rec.PctChange < s.MinPctChange {
			s.MinPctChange = rec.PctChange
		}
	}

	n := float64(len(roster))
	s.AvgAmount = s.TotalAmount / n / 1e8
	s.TotalAmount /= 1e8 // 亿
	s.AvgPctChange /= n

	s.Sentiment = Sentiment(s.TotalCount)
	s.SuccessRate = SuccessRate(s.TotalCount)
	return s
}

func (a *Analyzer) analyzeStock(rec contracts.LimitUpRecord, hist *contracts.HistoricalSeries) *contracts.StockAnalysis {
	sa := &contracts.StockAnalysis{LimitUpRecord: rec}

	if hist.Len() < a.cfg.Screen.MinHistoryBars {
		// 历史不足，只保留盘口数据
		return sa
	}

	sa.Indicators = computeIndicators(hist)
	sa.Features = computeFeatures(hist)
	sa.HasFeatures = true

	sa.ContinuousDays = a.streakDays(hist)
	sa.TotalIncrease = totalIncrease(hist, sa.ContinuousDays)

	return sa
}

// findStreakStocks keeps stocks with at least a 2-day streak, enriched with
// the per-day gains and a streak strength score, sorted by streak desc.
func (a *Analyzer) findStreakStocks(stocks []*contracts.StockAnalysis, history map[string]*contracts.HistoricalSeries) []*contracts.StockAnalysis {
	var out []*contracts.StockAnalysis

	for _, s := range stocks {
		if s.ContinuousDays < 2 {
			continue
		}
		hist := history[s.Code]
		s.DailyIncreases = dailyIncreases(hist, s.ContinuousDays)
		s.ContinuousStrength = streakStrength(s, hist)
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ContinuousDays > out[j].ContinuousDays
	})
	return out
}

func emptyResult() *contracts.AnalysisResult {
	return &contracts.AnalysisResult{
		Summary: contracts.MarketSummary{
			Sentiment:   Sentiment(0),
			SuccessRate: SuccessRate(0),
		},
		Stocks:       []*contracts.StockAnalysis{},
		StreakStocks: []*contracts.StockAnalysis{},
	}
}

// Sentiment maps the limit-up count to the market sentiment label.
func Sentiment(count int) string {
	switch {
	case count > 100:
		return "高潮"
	case count > 60:
		return "活跃"
	case count > 30:
		return "温和"
	case count > 10:
		return "清淡"
	default:
		return "冰点"
	}
}

// SuccessRate maps the limit-up count to a rough seal success rate estimate.
func SuccessRate(count int) string {
	switch {
	case count == 0:
		return "0%"
	case count > 80:
		return "85%"
	case count > 50:
		return "75%"
	case count > 30:
		return "65%"
	default:
		return "55%"
	}
}
