package limitup

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/pkg/logger"
)

func newTestAnalyzer() *Analyzer {
	return New(reviewcfg.Default(), logger.NewNop())
}

// series builds a history ending today from daily percent changes, oldest
// first, starting at close 10.0.
func series(code string, pcts ...float64) *contracts.HistoricalSeries {
	h := &contracts.HistoricalSeries{Code: code}
	close := 10.0
	for i, pct := range pcts {
		prev := close
		close = prev * (1 + pct/100)
		h.Bars = append(h.Bars, contracts.DailyBar{
			Date:         fmt.Sprintf("2026-08-%02d", i+1),
			Close:        close,
			PreClose:     prev,
			PctChange:    pct,
			HasPctChange: true,
			Volume:       1000,
			Amount:       5e8,
		})
	}
	return h
}

func TestAnalyze_EmptyRoster(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.Analyze(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Summary.TotalCount)
	assert.Equal(t, "冰点", result.Summary.Sentiment)
	assert.Equal(t, "0%", result.Summary.SuccessRate)
	assert.Empty(t, result.Stocks)
	assert.Empty(t, result.StreakStocks)
}

func TestAnalyze_MissingHistory(t *testing.T) {
	a := newTestAnalyzer()
	roster := []contracts.LimitUpRecord{
		{Code: "600001", Name: "测试一", PctChange: 10.0, Amount: 2e8},
	}

	result, err := a.Analyze(context.Background(), roster, nil)
	require.NoError(t, err)
	require.Len(t, result.Stocks, 1)

	s := result.Stocks[0]
	assert.False(t, s.HasFeatures)
	assert.Equal(t, 0, s.ContinuousDays)
	assert.Empty(t, result.StreakStocks)
}

func TestAnalyze_ShortHistory(t *testing.T) {
	a := newTestAnalyzer()
	roster := []contracts.LimitUpRecord{{Code: "600001", PctChange: 10.0}}
	history := map[string]*contracts.HistoricalSeries{
		"600001": series("600001", 1.0, 2.0, 10.0), // 3 bars < min_history_bars
	}

	result, err := a.Analyze(context.Background(), roster, history)
	require.NoError(t, err)
	assert.False(t, result.Stocks[0].HasFeatures)
	assert.Equal(t, 0, result.Stocks[0].ContinuousDays)
}

func TestStreakDays(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		name string
		hist *contracts.HistoricalSeries
		want int
	}{
		{"three in a row", series("x", 1.0, 2.0, 10.0, 10.0, 10.0), 3},
		{"broken yesterday", series("x", 10.0, 10.0, 3.0, 10.0), 1},
		{"no streak", series("x", 1.0, 2.0, 3.0, 4.0), 0},
		{"exactly at threshold", series("x", 1.0, 1.0, 9.8), 1},
		{"just below threshold", series("x", 1.0, 1.0, 9.79), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.streakDays(tc.hist))
		})
	}
}

func TestStreakDays_DerivedPct(t *testing.T) {
	a := newTestAnalyzer()

	// 数据源没给 pct_change，从 pre_close 推导
	h := &contracts.HistoricalSeries{Code: "600001", Bars: []contracts.DailyBar{
		{Close: 10.0, PreClose: 9.9},
		{Close: 11.0, PreClose: 10.0},
		{Close: 12.1, PreClose: 11.0},
	}}
	assert.Equal(t, 2, a.streakDays(h))

	// pre_close 缺失的那天直接中断
	h.Bars[1].PreClose = 0
	assert.Equal(t, 1, a.streakDays(h))
}

func TestStreakDays_WindowCap(t *testing.T) {
	a := newTestAnalyzer()

	pcts := make([]float64, 15)
	for i := range pcts {
		pcts[i] = 10.0
	}
	// 15 连续涨停也只数到窗口上限
	assert.Equal(t, a.cfg.Screen.MaxStreakWindow, a.streakDays(series("x", pcts...)))
}

func TestAnalyze_StreakStocks(t *testing.T) {
	a := newTestAnalyzer()
	roster := []contracts.LimitUpRecord{
		{Code: "600001", Name: "二连板", PctChange: 10.0, Amount: 6e8},
		{Code: "600002", Name: "四连板", PctChange: 10.0, Amount: 2e9},
		{Code: "600003", Name: "首板", PctChange: 10.0, Amount: 1e8},
	}
	history := map[string]*contracts.HistoricalSeries{
		"600001": series("600001", 1.0, 1.0, 1.0, 10.0, 10.0),
		"600002": series("600002", 2.0, 10.0, 10.0, 10.0, 10.0),
		"600003": series("600003", 1.0, 1.0, 1.0, 1.0, 10.0),
	}

	result, err := a.Analyze(context.Background(), roster, history)
	require.NoError(t, err)

	// 连板股按连板数降序，首板不入列
	require.Len(t, result.StreakStocks, 2)
	assert.Equal(t, "600002", result.StreakStocks[0].Code)
	assert.Equal(t, 4, result.StreakStocks[0].ContinuousDays)
	assert.Equal(t, "600001", result.StreakStocks[1].Code)
	assert.Equal(t, 2, result.StreakStocks[1].ContinuousDays)

	// 连板股带日涨幅和强度
	assert.Len(t, result.StreakStocks[0].DailyIncreases, 4)
	assert.Greater(t, result.StreakStocks[0].ContinuousStrength, 0.0)
	assert.LessOrEqual(t, result.StreakStocks[0].ContinuousStrength, 100.0)

	// 累计涨幅：4 个 10% 复利
	assert.InDelta(t, 46.41, result.StreakStocks[0].TotalIncrease, 0.01)
}

func TestSummary(t *testing.T) {
	a := newTestAnalyzer()
	roster := []contracts.LimitUpRecord{
		{Code: "600001", PctChange: 10.0, Amount: 1e8, Volume: 100},
		{Code: "600002", PctChange: 20.0, Amount: 3e8, Volume: 300},
	}

	result, err := a.Analyze(context.Background(), roster, nil)
	require.NoError(t, err)

	s := result.Summary
	assert.Equal(t, 2, s.TotalCount)
	assert.InDelta(t, 4.0, s.TotalAmount, 1e-9) // 亿
	assert.InDelta(t, 2.0, s.AvgAmount, 1e-9)
	assert.InDelta(t, 400, s.TotalVolume, 1e-9)
	assert.InDelta(t, 15.0, s.AvgPctChange, 1e-9)
	assert.InDelta(t, 20.0, s.MaxPctChange, 1e-9)
	assert.InDelta(t, 10.0, s.MinPctChange, 1e-9)
}

func TestSentimentBoundaries(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "冰点"},
		{10, "冰点"},
		{11, "清淡"},
		{30, "清淡"},
		{31, "温和"},
		{60, "温和"},
		{61, "活跃"},
		{100, "活跃"},
		{101, "高潮"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Sentiment(tc.count), "count=%d", tc.count)
	}
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, "0%", SuccessRate(0))
	assert.Equal(t, "55%", SuccessRate(30))
	assert.Equal(t, "65%", SuccessRate(31))
	assert.Equal(t, "75%", SuccessRate(51))
	assert.Equal(t, "85%", SuccessRate(81))
}
