package review

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/report"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/pkg/logger"
)

type stubSource struct {
	roster     []contracts.LimitUpRecord
	rosterErr  error
	historyErr map[string]error
	bars       int
	calls      []string
	starts     []string
}

func (s *stubSource) LimitUpRoster(ctx context.Context, date string) ([]contracts.LimitUpRecord, error) {
	return s.roster, s.rosterErr
}

func (s *stubSource) History(ctx context.Context, code, start, end string) (*contracts.HistoricalSeries, error) {
	s.calls = append(s.calls, code)
	s.starts = append(s.starts, start)
	if err := s.historyErr[code]; err != nil {
		return nil, err
	}
	bars := make([]contracts.DailyBar, s.bars)
	for i := range bars {
		bars[i] = contracts.DailyBar{Close: 10, PreClose: 10}
	}
	return &contracts.HistoricalSeries{Code: code, Bars: bars}, nil
}

type stubAnalyzer struct {
	gotHistory map[string]*contracts.HistoricalSeries
}

func (s *stubAnalyzer) Analyze(ctx context.Context, roster []contracts.LimitUpRecord, history map[string]*contracts.HistoricalSeries) (*contracts.AnalysisResult, error) {
	s.gotHistory = history
	stocks := make([]*contracts.StockAnalysis, 0, len(roster))
	for i := range roster {
		stocks = append(stocks, &contracts.StockAnalysis{LimitUpRecord: roster[i]})
	}
	return &contracts.AnalysisResult{
		Summary: contracts.MarketSummary{TotalCount: len(roster)},
		Stocks:  stocks,
	}, nil
}

type stubSectors struct{}

func (stubSectors) Analyze(ctx context.Context, stocks []*contracts.StockAnalysis) ([]*contracts.SectorGroup, error) {
	return nil, nil
}

type stubRoles struct{}

func (stubRoles) Identify(ctx context.Context, stocks []*contracts.StockAnalysis, sectors []*contracts.SectorGroup) (*contracts.RoleAssignment, error) {
	return &contracts.RoleAssignment{Watch: stocks}, nil
}

type stubCommentary struct {
	called bool
	err    error
}

func (s *stubCommentary) Commentate(ctx context.Context, roles *contracts.RoleAssignment) (map[string]*contracts.Commentary, error) {
	s.called = true
	return nil, s.err
}

type stubGenerator struct {
	gotCommentary map[string]*contracts.Commentary
}

func (s *stubGenerator) Generate(ctx context.Context, analysis *contracts.AnalysisResult, roles *contracts.RoleAssignment, commentary map[string]*contracts.Commentary) (*contracts.StrategyReport, error) {
	s.gotCommentary = commentary
	return &contracts.StrategyReport{
		Summary: contracts.ReportSummary{TotalLimitUps: analysis.Summary.TotalCount},
		Meta:    contracts.ReportMeta{TradeDate: analysis.Summary.TradeDate},
	}, nil
}

type stubNotifier struct {
	reports []string
	errs    []string
}

func (s *stubNotifier) SendReport(ctx context.Context, report *contracts.StrategyReport, markdown string) error {
	s.reports = append(s.reports, markdown)
	return nil
}

func (s *stubNotifier) SendError(ctx context.Context, message string) error {
	s.errs = append(s.errs, message)
	return nil
}

func roster(codes ...string) []contracts.LimitUpRecord {
	out := make([]contracts.LimitUpRecord, 0, len(codes))
	for _, c := range codes {
		out = append(out, contracts.LimitUpRecord{Code: c, Name: "股票" + c, PctChange: 10})
	}
	return out
}

func newTestRunner(t *testing.T, deps Deps) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	if deps.Writer == nil {
		deps.Writer = report.NewWriter(dir, logger.NewNop())
	}
	return NewRunner(deps, reviewcfg.Default(), dir, logger.NewNop()), dir
}

func TestRunHappyPath(t *testing.T) {
	source := &stubSource{roster: roster("600519", "000858"), bars: 10}
	analyzer := &stubAnalyzer{}
	notifier := &stubNotifier{}
	deps := Deps{
		Source:    source,
		Analyzer:  analyzer,
		Sectors:   stubSectors{},
		Roles:     stubRoles{},
		Generator: &stubGenerator{},
		Notifier:  notifier,
	}
	runner, dir := newTestRunner(t, deps)

	rep, err := runner.Run(context.Background(), "2025-08-29", true)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Summary.TotalLimitUps)
	assert.Equal(t, "2025-08-29", rep.Meta.TradeDate)
	assert.Len(t, analyzer.gotHistory, 2)
	assert.Len(t, notifier.reports, 1)
	assert.Empty(t, notifier.errs)

	// 报告与运行日志都落盘
	_, err = os.Stat(filepath.Join(dir, "strategy_20250829.json"))
	assert.NoError(t, err)
	logData, err := os.ReadFile(filepath.Join(dir, runLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(logData), `"success":true`)
	assert.Contains(t, string(logData), `"limit_ups":2`)
}

func TestRunNoNotify(t *testing.T) {
	notifier := &stubNotifier{}
	deps := Deps{
		Source:    &stubSource{roster: roster("600519"), bars: 10},
		Analyzer:  &stubAnalyzer{},
		Sectors:   stubSectors{},
		Roles:     stubRoles{},
		Generator: &stubGenerator{},
		Notifier:  notifier,
	}
	runner, _ := newTestRunner(t, deps)

	_, err := runner.Run(context.Background(), "2025-08-29", false)
	require.NoError(t, err)
	assert.Empty(t, notifier.reports)
}

func TestRunRosterFailure(t *testing.T) {
	notifier := &stubNotifier{}
	deps := Deps{
		Source:    &stubSource{rosterErr: errors.New("upstream down")},
		Analyzer:  &stubAnalyzer{},
		Sectors:   stubSectors{},
		Roles:     stubRoles{},
		Generator: &stubGenerator{},
		Notifier:  notifier,
	}
	runner, dir := newTestRunner(t, deps)

	_, err := runner.Run(context.Background(), "2025-08-29", true)
	require.Error(t, err)
	require.Len(t, notifier.errs, 1)
	assert.Contains(t, notifier.errs[0], "upstream down")

	logData, err := os.ReadFile(filepath.Join(dir, runLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(logData), `"success":false`)
}

func TestRunTolerantOfHistoryFailures(t *testing.T) {
	source := &stubSource{
		roster:     roster("600519", "000858", "300750"),
		bars:       10,
		historyErr: map[string]error{"000858": fmt.Errorf("timeout")},
	}
	analyzer := &stubAnalyzer{}
	deps := Deps{
		Source:    source,
		Analyzer:  analyzer,
		Sectors:   stubSectors{},
		Roles:     stubRoles{},
		Generator: &stubGenerator{},
	}
	runner, _ := newTestRunner(t, deps)

	_, err := runner.Run(context.Background(), "2025-08-29", false)
	require.NoError(t, err)
	assert.Len(t, analyzer.gotHistory, 2)
	assert.NotContains(t, analyzer.gotHistory, "000858")
}

func TestRunHistoryWindowFollowsConfig(t *testing.T) {
	source := &stubSource{roster: roster("600519"), bars: 10}
	deps := Deps{
		Source:    source,
		Analyzer:  &stubAnalyzer{},
		Sectors:   stubSectors{},
		Roles:     stubRoles{},
		Generator: &stubGenerator{},
	}
	runner, _ := newTestRunner(t, deps)
	runner.review.History.LookbackDays = 90

	_, err := runner.Run(context.Background(), "2025-08-29", false)
	require.NoError(t, err)
	require.Len(t, source.starts, 1)
	assert.Equal(t, "2025-05-31", source.starts[0])
}

func TestRunDropsShortHistory(t *testing.T) {
	source := &stubSource{roster: roster("600519"), bars: 3} // 少于最小根数
	analyzer := &stubAnalyzer{}
	deps := Deps{
		Source:    source,
		Analyzer:  analyzer,
		Sectors:   stubSectors{},
		Roles:     stubRoles{},
		Generator: &stubGenerator{},
	}
	runner, _ := newTestRunner(t, deps)

	_, err := runner.Run(context.Background(), "2025-08-29", false)
	require.NoError(t, err)
	assert.Empty(t, analyzer.gotHistory)
}

func TestRunCommentaryFailureDoesNotBlock(t *testing.T) {
	commentary := &stubCommentary{err: errors.New("api quota")}
	gen := &stubGenerator{gotCommentary: map[string]*contracts.Commentary{"seed": nil}}
	deps := Deps{
		Source:     &stubSource{roster: roster("600519"), bars: 10},
		Analyzer:   &stubAnalyzer{},
		Sectors:    stubSectors{},
		Roles:      stubRoles{},
		Commentary: commentary,
		Generator:  gen,
	}
	runner, _ := newTestRunner(t, deps)
	runner.review.Commentary.Enable = true

	_, err := runner.Run(context.Background(), "2025-08-29", false)
	require.NoError(t, err)
	assert.True(t, commentary.called)
	assert.Nil(t, gen.gotCommentary)
}

func TestRunResolvesDateWhenEmpty(t *testing.T) {
	gen := &stubGenerator{}
	deps := Deps{
		Source:    &stubSource{roster: roster("600519"), bars: 10},
		Analyzer:  &stubAnalyzer{},
		Sectors:   stubSectors{},
		Roles:     stubRoles{},
		Generator: gen,
	}
	runner, _ := newTestRunner(t, deps)

	rep, err := runner.Run(context.Background(), "", false)
	require.NoError(t, err)
	require.NotEmpty(t, rep.Meta.TradeDate)
	assert.True(t, strings.HasPrefix(rep.Meta.TradeDate, "20"))
}
